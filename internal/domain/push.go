package domain

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one browser push endpoint for a user, unique per
// (user, endpoint). Endpoints reported gone by the push transport
// (HTTP 404/410) are deleted.
type PushSubscription struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Endpoint   string     `json:"endpoint"`
	P256dh     string     `json:"p256dh"`
	Auth       string     `json:"auth"`
	UserAgent  *string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
