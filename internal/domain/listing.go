package domain

import (
	"time"

	"github.com/google/uuid"
)

// Categories a listing may be posted under.
var ListingCategories = []string{
	"Dorm and Decor",
	"Fun and Craft",
	"Transportation",
	"Tech and Gadgets",
	"Books",
	"Clothing and Accessories",
	"Giveaways",
}

func ValidCategory(c string) bool {
	for _, cat := range ListingCategories {
		if cat == c {
			return true
		}
	}
	return false
}

type Listing struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
	// Joined fields
	SellerName string `json:"seller_name,omitempty"`
}

// ListingFilter narrows marketplace browsing. Zero values mean "no filter".
type ListingFilter struct {
	Category      string
	Search        string
	MaxPriceCents int64
	UserID        uuid.UUID
}

// ListingSummary is the denormalized listing info carried on conversations.
// Nil when the backing listing has been deleted.
type ListingSummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url,omitempty"`
}
