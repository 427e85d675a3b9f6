package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umelife/marketplace/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// messageCols joins sender/receiver names and the listing summary. The
// listing join is LEFT so threads on deleted listings still load.
const messageCols = `
	m.id, m.listing_id, m.sender_id, m.receiver_id, m.body, m.read,
	m.edited, m.edited_at, m.seen_at, m.created_at,
	us.display_name, ur.display_name,
	l.id, l.title, COALESCE(l.image_urls[1], '')`

const messageJoins = `
	FROM messages m
	JOIN users us ON m.sender_id = us.id
	JOIN users ur ON m.receiver_id = ur.id
	LEFT JOIN listings l ON m.listing_id = l.id`

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, listing_id, sender_id, receiver_id, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.ListingID, msg.SenderID, msg.ReceiverID, msg.Body, msg.Read, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	row := r.pool.QueryRow(ctx, "SELECT"+messageCols+messageJoins+" WHERE m.id = $1", id)
	msg, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return msg, err
}

func (r *MessageRepo) ListThread(ctx context.Context, listingID, userA, userB uuid.UUID) ([]domain.Message, error) {
	query := "SELECT" + messageCols + messageJoins + `
		WHERE m.listing_id = $1
			AND ((m.sender_id = $2 AND m.receiver_id = $3) OR (m.sender_id = $3 AND m.receiver_id = $2))
		ORDER BY m.created_at ASC`
	return r.listMessages(ctx, query, listingID, userA, userB)
}

func (r *MessageRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	query := "SELECT" + messageCols + messageJoins + `
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC`
	return r.listMessages(ctx, query, userID)
}

func (r *MessageRepo) listMessages(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		msg                     domain.Message
		senderName, recvName    string
		listingID               *uuid.UUID
		listingTitle, listingImg *string
	)
	err := row.Scan(
		&msg.ID, &msg.ListingID, &msg.SenderID, &msg.ReceiverID, &msg.Body, &msg.Read,
		&msg.Edited, &msg.EditedAt, &msg.SeenAt, &msg.CreatedAt,
		&senderName, &recvName,
		&listingID, &listingTitle, &listingImg,
	)
	if err != nil {
		return nil, err
	}

	msg.Sender = &domain.UserSummary{ID: msg.SenderID, DisplayName: senderName}
	msg.Receiver = &domain.UserSummary{ID: msg.ReceiverID, DisplayName: recvName}
	if listingID != nil {
		summary := &domain.ListingSummary{ID: *listingID}
		if listingTitle != nil {
			summary.Title = *listingTitle
		}
		if listingImg != nil {
			summary.ImageURL = *listingImg
		}
		msg.Listing = summary
	}
	return &msg, nil
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	query := `UPDATE messages SET body = $1, edited = true, edited_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, msg.Body, time.Now(), msg.ID)
	return err
}

// Delete is a hard delete; the row is gone, no tombstone.
func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

// MarkRead is idempotent through the read = false filter; a second call
// matches zero rows.
func (r *MessageRepo) MarkRead(ctx context.Context, listingID, receiverID, senderID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages SET read = true, seen_at = $1
		WHERE listing_id = $2 AND receiver_id = $3 AND sender_id = $4 AND read = false`
	tag, err := r.pool.Exec(ctx, query, time.Now(), listingID, receiverID, senderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *MessageRepo) CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = false`,
		receiverID,
	).Scan(&count)
	return count, err
}
