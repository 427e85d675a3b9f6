package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat message, always scoped to one listing and one
// sender/receiver pair. Thread order is created_at ascending.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	ListingID  uuid.UUID  `json:"listing_id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	Body       string     `json:"body"`
	Read       bool       `json:"read"`
	Edited     bool       `json:"edited"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
	SeenAt     *time.Time `json:"seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	// Joined fields
	Sender   *UserSummary    `json:"sender,omitempty"`
	Receiver *UserSummary    `json:"receiver,omitempty"`
	Listing  *ListingSummary `json:"listing,omitempty"`
}

// CounterpartOf returns the other participant relative to the viewer.
func (m *Message) CounterpartOf(viewerID uuid.UUID) uuid.UUID {
	if m.SenderID == viewerID {
		return m.ReceiverID
	}
	return m.SenderID
}
