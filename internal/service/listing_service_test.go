package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

func TestCreateListing_InvalidCategory(t *testing.T) {
	listingRepo := new(repository.MockListingRepository)
	svc := NewListingService(listingRepo)

	_, err := svc.Create(context.Background(), uuid.New(), ListingInput{
		Title:    "Mini fridge",
		Category: "appliances-but-wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCategory)
	listingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListing_DefaultsImageURLs(t *testing.T) {
	listingRepo := new(repository.MockListingRepository)
	svc := NewListingService(listingRepo)

	var stored *domain.Listing
	listingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Listing)
		}).
		Return(nil)

	_, err := svc.Create(context.Background(), uuid.New(), ListingInput{
		Title:      "Mini fridge",
		Category:   domain.ListingCategories[0],
		PriceCents: 4500,
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.NotNil(t, stored.ImageURLs, "image_urls must serialize as [], not null")
	assert.NotEqual(t, uuid.Nil, stored.ID)
}

func TestUpdateListing_NotOwner(t *testing.T) {
	listingRepo := new(repository.MockListingRepository)
	svc := NewListingService(listingRepo)
	listingID := uuid.New()

	listingRepo.On("GetByID", mock.Anything, listingID).Return(&domain.Listing{
		ID:     listingID,
		UserID: uuid.New(),
	}, nil)

	_, err := svc.Update(context.Background(), uuid.New(), listingID, ListingInput{
		Title:    "hijacked",
		Category: domain.ListingCategories[0],
	})
	assert.ErrorIs(t, err, ErrNotListingOwner)
}

func TestDeleteListing_NotFound(t *testing.T) {
	listingRepo := new(repository.MockListingRepository)
	svc := NewListingService(listingRepo)
	listingID := uuid.New()

	listingRepo.On("GetByID", mock.Anything, listingID).Return(nil, nil)

	err := svc.Delete(context.Background(), uuid.New(), listingID)
	assert.ErrorIs(t, err, ErrListingNotFound)
	listingRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListListings_EmptyIsNotNil(t *testing.T) {
	listingRepo := new(repository.MockListingRepository)
	svc := NewListingService(listingRepo)

	listingRepo.On("List", mock.Anything, mock.AnythingOfType("domain.ListingFilter")).Return(nil, nil)

	listings, err := svc.List(context.Background(), domain.ListingFilter{})
	require.NoError(t, err)
	require.NotNil(t, listings)
	assert.Empty(t, listings)
}
