package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a derived view over the message table, keyed by
// (listing, counterpart) relative to one viewer. It is never persisted;
// it is recomputed from messages on each load and patched incrementally
// by realtime events on the client.
type Conversation struct {
	ListingID       uuid.UUID       `json:"listing_id"`
	OtherUserID     uuid.UUID       `json:"other_user_id"`
	Listing         *ListingSummary `json:"listing,omitempty"`
	OtherUser       *UserSummary    `json:"other_user,omitempty"`
	LastMessage     string          `json:"last_message"`
	LastMessageTime time.Time       `json:"last_message_time"`
	UnreadCount     int             `json:"unread_count"`
}
