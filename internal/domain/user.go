package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	UniversityDomain string    `json:"university_domain"`
	PasswordHash     string    `json:"-"`
	IsAdmin          bool      `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UserSummary is the denormalized counterpart info carried on messages
// and conversations.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, DisplayName: u.DisplayName}
}
