package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

type CartService struct {
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
}

func NewCartService(cartRepo repository.CartRepository, listingRepo repository.ListingRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
	}
}

// Add upserts a listing into the cart; adding the same listing again bumps
// the quantity.
func (s *CartService) Add(ctx context.Context, userID, listingID uuid.UUID, quantity int) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}

	if quantity <= 0 {
		quantity = 1
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: listingID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("adding to cart: %w", err)
	}
	return nil
}

func (s *CartService) List(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

func (s *CartService) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, userID, listingID)
}
