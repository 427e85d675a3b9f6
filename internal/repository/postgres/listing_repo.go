package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umelife/marketplace/internal/domain"
)

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

func (r *ListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
		INSERT INTO listings (id, user_id, title, description, category, price_cents, image_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		listing.ID, listing.UserID, listing.Title, listing.Description,
		listing.Category, listing.PriceCents, listing.ImageURLs, listing.CreatedAt,
	)
	return err
}

func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := `
		SELECT l.id, l.user_id, l.title, l.description, l.category, l.price_cents, l.image_urls, l.created_at, u.display_name
		FROM listings l
		JOIN users u ON l.user_id = u.id
		WHERE l.id = $1`
	var l domain.Listing
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Category,
		&l.PriceCents, &l.ImageURLs, &l.CreatedAt, &l.SellerName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &l, err
}

func (r *ListingRepo) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := `
		SELECT l.id, l.user_id, l.title, l.description, l.category, l.price_cents, l.image_urls, l.created_at, u.display_name
		FROM listings l
		JOIN users u ON l.user_id = u.id
		WHERE 1=1`
	var args []any

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND l.category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (l.title ILIKE $%d OR l.description ILIKE $%d)", len(args), len(args))
	}
	if filter.MaxPriceCents > 0 {
		args = append(args, filter.MaxPriceCents)
		query += fmt.Sprintf(" AND l.price_cents <= $%d", len(args))
	}
	if filter.UserID != uuid.Nil {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND l.user_id = $%d", len(args))
	}

	query += " ORDER BY l.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Title, &l.Description, &l.Category,
			&l.PriceCents, &l.ImageURLs, &l.CreatedAt, &l.SellerName,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *ListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	query := `
		UPDATE listings
		SET title = $1, description = $2, category = $3, price_cents = $4, image_urls = $5
		WHERE id = $6`
	_, err := r.pool.Exec(ctx, query,
		listing.Title, listing.Description, listing.Category,
		listing.PriceCents, listing.ImageURLs, listing.ID,
	)
	return err
}

func (r *ListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	return err
}
