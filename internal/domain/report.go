package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Report struct {
	ID         uuid.UUID `json:"id"`
	ReporterID uuid.UUID `json:"reporter_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	// Joined fields
	Reporter *UserSummary    `json:"reporter,omitempty"`
	Listing  *ListingSummary `json:"listing,omitempty"`
}
