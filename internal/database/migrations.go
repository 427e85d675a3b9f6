package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. Every statement is idempotent so it can run
// on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			university_domain TEXT NOT NULL DEFAULT '',
			avatar_url TEXT,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS listings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			price_cents BIGINT NOT NULL DEFAULT 0,
			image_urls TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_listings_user ON listings(user_id)`,

		`CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			listing_id UUID NOT NULL,
			sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			edited BOOLEAN NOT NULL DEFAULT FALSE,
			edited_at TIMESTAMPTZ,
			seen_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Thread reads (listing, both participants) and unread badge counts.
		`CREATE INDEX IF NOT EXISTS idx_messages_thread
		ON messages(listing_id, sender_id, receiver_id, created_at)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_unread
		ON messages(receiver_id) WHERE read = FALSE`,

		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			listing_id UUID NOT NULL,
			reason TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			buyer_id UUID NOT NULL REFERENCES users(id),
			seller_id UUID NOT NULL REFERENCES users(id),
			listing_id UUID NOT NULL,
			stripe_checkout_session_id TEXT NOT NULL UNIQUE,
			stripe_payment_intent_id TEXT,
			stripe_charge_id TEXT,
			amount_cents BIGINT NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'usd',
			platform_fee_cents BIGINT NOT NULL DEFAULT 0,
			seller_amount_cents BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			buyer_email TEXT,
			buyer_name TEXT,
			payment_method TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_payment_intent
		ON orders(stripe_payment_intent_id)`,

		`CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			listing_id UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
			quantity INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, listing_id)
		)`,

		`CREATE TABLE IF NOT EXISTS push_subscriptions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			endpoint TEXT NOT NULL,
			p256dh TEXT NOT NULL,
			auth TEXT NOT NULL,
			user_agent TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_used_at TIMESTAMPTZ,
			UNIQUE (user_id, endpoint)
		)`,
	}

	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
