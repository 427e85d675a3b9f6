package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotListingOwner = errors.New("only the listing owner can perform this action")
	ErrInvalidCategory = errors.New("invalid listing category")
)

type ListingService struct {
	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

type ListingInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	PriceCents  int64    `json:"price_cents"`
	ImageURLs   []string `json:"image_urls"`
}

func (s *ListingService) Create(ctx context.Context, userID uuid.UUID, input ListingInput) (*domain.Listing, error) {
	if !domain.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	if input.ImageURLs == nil {
		input.ImageURLs = []string{}
	}

	listing := &domain.Listing{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		ImageURLs:   input.ImageURLs,
		CreatedAt:   time.Now(),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	return listing, nil
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func (s *ListingService) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, nil
}

func (s *ListingService) Update(ctx context.Context, userID, listingID uuid.UUID, input ListingInput) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.UserID != userID {
		return nil, ErrNotListingOwner
	}
	if !domain.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Category = input.Category
	listing.PriceCents = input.PriceCents
	if input.ImageURLs != nil {
		listing.ImageURLs = input.ImageURLs
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("updating listing: %w", err)
	}

	return listing, nil
}

func (s *ListingService) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}
	if listing.UserID != userID {
		return ErrNotListingOwner
	}

	return s.listingRepo.Delete(ctx, listingID)
}
