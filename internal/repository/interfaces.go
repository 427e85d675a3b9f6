package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListThread returns the messages between two users on one listing,
	// created_at ascending.
	ListThread(ctx context.Context, listingID, userA, userB uuid.UUID) ([]domain.Message, error)
	// ListByUser returns every message the user sent or received, with
	// listing and participant summaries joined, created_at descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	Update(ctx context.Context, msg *domain.Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkRead flips read=false rows for the receiver in one thread and
	// reports how many rows changed. Calling it again is a no-op.
	MarkRead(ctx context.Context, listingID, receiverID, senderID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListAll(ctx context.Context) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Order, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
}

type CartRepository interface {
	// Upsert inserts the item or bumps quantity on (user, listing) conflict.
	Upsert(ctx context.Context, item *domain.CartItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
	Delete(ctx context.Context, userID, listingID uuid.UUID) error
}

type PushSubscriptionRepository interface {
	// Upsert inserts or refreshes the row keyed by (user, endpoint).
	Upsert(ctx context.Context, sub *domain.PushSubscription) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushSubscription, error)
	Delete(ctx context.Context, userID uuid.UUID, endpoint string) error
	TouchLastUsed(ctx context.Context, userID uuid.UUID, endpoint string) error
}
