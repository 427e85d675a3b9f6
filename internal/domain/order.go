package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusRefunded = "refunded"
)

// Order tracks a checkout against the payment processor. Rows are keyed to
// the processor's checkout session and updated by webhook events.
type Order struct {
	ID                      uuid.UUID `json:"id"`
	BuyerID                 uuid.UUID `json:"buyer_id"`
	SellerID                uuid.UUID `json:"seller_id"`
	ListingID               uuid.UUID `json:"listing_id"`
	StripeCheckoutSessionID string    `json:"stripe_checkout_session_id"`
	StripePaymentIntentID   *string   `json:"stripe_payment_intent_id,omitempty"`
	StripeChargeID          *string   `json:"stripe_charge_id,omitempty"`
	AmountCents             int64     `json:"amount_cents"`
	Currency                string    `json:"currency"`
	PlatformFeeCents        int64     `json:"platform_fee_cents"`
	SellerAmountCents       int64     `json:"seller_amount_cents"`
	Status                  string    `json:"status"`
	BuyerEmail              *string   `json:"buyer_email,omitempty"`
	BuyerName               *string   `json:"buyer_name,omitempty"`
	PaymentMethod           *string   `json:"payment_method,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
