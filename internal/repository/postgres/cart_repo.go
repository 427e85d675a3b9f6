package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umelife/marketplace/internal/domain"
)

type CartRepo struct {
	pool *pgxpool.Pool
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

func (r *CartRepo) Upsert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, listing_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, listing_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	_, err := r.pool.Exec(ctx, query,
		item.ID, item.UserID, item.ListingID, item.Quantity, item.CreatedAt,
	)
	return err
}

func (r *CartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		SELECT c.id, c.user_id, c.listing_id, c.quantity, c.created_at,
			l.id, l.user_id, l.title, l.description, l.category, l.price_cents, l.image_urls, l.created_at
		FROM cart_items c
		JOIN listings l ON c.listing_id = l.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item    domain.CartItem
			listing domain.Listing
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ListingID, &item.Quantity, &item.CreatedAt,
			&listing.ID, &listing.UserID, &listing.Title, &listing.Description,
			&listing.Category, &listing.PriceCents, &listing.ImageURLs, &listing.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Listing = &listing
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CartRepo) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	return err
}
