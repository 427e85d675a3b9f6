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

func TestCartAdd_UnknownListing(t *testing.T) {
	cartRepo := new(repository.MockCartRepository)
	listingRepo := new(repository.MockListingRepository)
	svc := NewCartService(cartRepo, listingRepo)
	listingID := uuid.New()

	listingRepo.On("GetByID", mock.Anything, listingID).Return(nil, nil)

	err := svc.Add(context.Background(), uuid.New(), listingID, 1)
	assert.ErrorIs(t, err, ErrListingNotFound)
	cartRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCartAdd_DefaultsQuantity(t *testing.T) {
	cartRepo := new(repository.MockCartRepository)
	listingRepo := new(repository.MockListingRepository)
	svc := NewCartService(cartRepo, listingRepo)
	listingID := uuid.New()

	listingRepo.On("GetByID", mock.Anything, listingID).Return(&domain.Listing{ID: listingID}, nil)

	var stored *domain.CartItem
	cartRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.CartItem")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.CartItem)
		}).
		Return(nil)

	require.NoError(t, svc.Add(context.Background(), uuid.New(), listingID, 0))
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Quantity)
}

func TestCartList_EmptyIsNotNil(t *testing.T) {
	cartRepo := new(repository.MockCartRepository)
	svc := NewCartService(cartRepo, new(repository.MockListingRepository))
	userID := uuid.New()

	cartRepo.On("ListByUser", mock.Anything, userID).Return(nil, nil)

	items, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
}
