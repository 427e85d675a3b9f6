package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is unique per (user, listing); adding an existing listing
// bumps the quantity instead of inserting a second row.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ListingID uuid.UUID `json:"listing_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	// Joined fields
	Listing *Listing `json:"listing,omitempty"`
}
