package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderMailer sends transactional order emails. Failures are logged and
// never fail the webhook handling that triggered them.
type OrderMailer interface {
	SendBuyerConfirmation(ctx context.Context, order *domain.Order) error
	SendSellerNotification(ctx context.Context, order *domain.Order) error
}

// OrderPusher delivers payment push notifications.
type OrderPusher interface {
	SendOrderPush(ctx context.Context, userID uuid.UUID, title, body string)
}

type OrderService struct {
	orderRepo repository.OrderRepository
	mailer    OrderMailer
	pusher    OrderPusher
}

func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func (s *OrderService) SetMailer(m OrderMailer) {
	s.mailer = m
}

func (s *OrderService) SetPusher(p OrderPusher) {
	s.pusher = p
}

// CheckoutCompletedInput carries the fields the payment processor reports
// when a checkout session finishes.
type CheckoutCompletedInput struct {
	SessionID       string
	PaymentIntentID string
	PaymentMethod   string
	AmountCents     int64
	Currency        string
	BuyerEmail      string
	BuyerName       string

	// Session metadata, present when the order row was not pre-created.
	BuyerID           uuid.UUID
	SellerID          uuid.UUID
	ListingID         uuid.UUID
	PlatformFeeCents  int64
	SellerAmountCents int64
}

// HandleCheckoutCompleted marks the matching order paid, or creates it from
// session metadata when the checkout flow never wrote a pending row.
func (s *OrderService) HandleCheckoutCompleted(ctx context.Context, input CheckoutCompletedInput) (*domain.Order, error) {
	order, err := s.orderRepo.GetByCheckoutSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if order == nil {
		if input.BuyerID == uuid.Nil || input.SellerID == uuid.Nil || input.ListingID == uuid.Nil {
			return nil, fmt.Errorf("no order for session %s and incomplete metadata", input.SessionID)
		}
		order = &domain.Order{
			ID:                      uuid.New(),
			BuyerID:                 input.BuyerID,
			SellerID:                input.SellerID,
			ListingID:               input.ListingID,
			StripeCheckoutSessionID: input.SessionID,
			AmountCents:             input.AmountCents,
			Currency:                input.Currency,
			PlatformFeeCents:        input.PlatformFeeCents,
			SellerAmountCents:       input.SellerAmountCents,
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		applyPayment(order, input)
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("creating order from webhook: %w", err)
		}
	} else {
		applyPayment(order, input)
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, fmt.Errorf("updating order: %w", err)
		}
	}

	s.notifyPaid(ctx, order)
	return order, nil
}

func applyPayment(order *domain.Order, input CheckoutCompletedInput) {
	order.Status = domain.OrderStatusPaid
	if input.PaymentIntentID != "" {
		order.StripePaymentIntentID = &input.PaymentIntentID
	}
	if input.PaymentMethod != "" {
		order.PaymentMethod = &input.PaymentMethod
	}
	if input.BuyerEmail != "" {
		order.BuyerEmail = &input.BuyerEmail
	}
	if input.BuyerName != "" {
		order.BuyerName = &input.BuyerName
	}
}

// HandlePaymentIntentSucceeded records the charge id on the matching order.
// An unknown intent is benign: the checkout event may not have landed yet.
func (s *OrderService) HandlePaymentIntentSucceeded(ctx context.Context, intentID, chargeID string) error {
	order, err := s.orderRepo.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}

	if chargeID != "" {
		order.StripeChargeID = &chargeID
	}
	return s.orderRepo.Update(ctx, order)
}

// HandleChargeRefunded marks the matching order refunded.
func (s *OrderService) HandleChargeRefunded(ctx context.Context, intentID string) error {
	order, err := s.orderRepo.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	order.Status = domain.OrderStatusRefunded
	return s.orderRepo.Update(ctx, order)
}

// notifyPaid fans out buyer/seller email and push. All failures are logged
// only; the webhook must still succeed.
func (s *OrderService) notifyPaid(ctx context.Context, order *domain.Order) {
	if s.mailer != nil {
		if err := s.mailer.SendBuyerConfirmation(ctx, order); err != nil {
			log.Printf("order: buyer confirmation email failed: %v", err)
		}
		if err := s.mailer.SendSellerNotification(ctx, order); err != nil {
			log.Printf("order: seller notification email failed: %v", err)
		}
	}
	if s.pusher != nil {
		s.pusher.SendOrderPush(ctx, order.BuyerID, "Payment received", "Your payment was successful.")
		s.pusher.SendOrderPush(ctx, order.SellerID, "Item sold", "One of your listings just sold.")
	}
}
