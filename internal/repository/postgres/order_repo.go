package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umelife/marketplace/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderCols = `
	id, buyer_id, seller_id, listing_id, stripe_checkout_session_id,
	stripe_payment_intent_id, stripe_charge_id, amount_cents, currency,
	platform_fee_cents, seller_amount_cents, status, buyer_email, buyer_name,
	payment_method, created_at, updated_at`

func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.pool.Exec(ctx, query,
		order.ID, order.BuyerID, order.SellerID, order.ListingID, order.StripeCheckoutSessionID,
		order.StripePaymentIntentID, order.StripeChargeID, order.AmountCents, order.Currency,
		order.PlatformFeeCents, order.SellerAmountCents, order.Status, order.BuyerEmail, order.BuyerName,
		order.PaymentMethod, order.CreatedAt, order.UpdatedAt,
	)
	return err
}

func (r *OrderRepo) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.scanOrder(ctx, `SELECT `+orderCols+` FROM orders WHERE stripe_checkout_session_id = $1`, sessionID)
}

func (r *OrderRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	return r.scanOrder(ctx, `SELECT `+orderCols+` FROM orders WHERE stripe_payment_intent_id = $1`, intentID)
}

func (r *OrderRepo) scanOrder(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.ListingID, &o.StripeCheckoutSessionID,
		&o.StripePaymentIntentID, &o.StripeChargeID, &o.AmountCents, &o.Currency,
		&o.PlatformFeeCents, &o.SellerAmountCents, &o.Status, &o.BuyerEmail, &o.BuyerName,
		&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &o, err
}

func (r *OrderRepo) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET stripe_payment_intent_id = $1, stripe_charge_id = $2, status = $3,
			payment_method = $4, buyer_email = $5, buyer_name = $6, updated_at = $7
		WHERE id = $8`
	_, err := r.pool.Exec(ctx, query,
		order.StripePaymentIntentID, order.StripeChargeID, order.Status,
		order.PaymentMethod, order.BuyerEmail, order.BuyerName, time.Now(), order.ID,
	)
	return err
}
