package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/umelife/marketplace/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if listing, ok := args.Get(0).(*domain.Listing); ok {
		return listing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	if listings, ok := args.Get(0).([]domain.Listing); ok {
		return listings, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if msg, ok := args.Get(0).(*domain.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageRepository) ListThread(ctx context.Context, listingID, userA, userB uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, listingID, userA, userB)
	if msgs, ok := args.Get(0).([]domain.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if msgs, ok := args.Get(0).([]domain.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageRepository) Update(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, listingID, receiverID, senderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, listingID, receiverID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if report, ok := args.Get(0).(*domain.Report); ok {
		return report, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportRepository) ListAll(ctx context.Context) ([]domain.Report, error) {
	args := m.Called(ctx)
	if reports, ok := args.Get(0).([]domain.Report); ok {
		return reports, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	args := m.Called(ctx, sessionID)
	if order, ok := args.Get(0).(*domain.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	args := m.Called(ctx, intentID)
	if order, ok := args.Get(0).(*domain.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if items, ok := args.Get(0).([]domain.CartItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

type MockPushSubscriptionRepository struct {
	mock.Mock
}

func (m *MockPushSubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockPushSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if subs, ok := args.Get(0).([]domain.PushSubscription); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPushSubscriptionRepository) Delete(ctx context.Context, userID uuid.UUID, endpoint string) error {
	args := m.Called(ctx, userID, endpoint)
	return args.Error(0)
}

func (m *MockPushSubscriptionRepository) TouchLastUsed(ctx context.Context, userID uuid.UUID, endpoint string) error {
	args := m.Called(ctx, userID, endpoint)
	return args.Error(0)
}
