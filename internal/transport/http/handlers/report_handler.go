package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/service"
	"github.com/umelife/marketplace/internal/transport/http/middleware"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		ListingID uuid.UUID `json:"listing_id"`
		Reason    string    `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.ListingID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "listing_id is required")
		return
	}

	report, err := h.reportService.ReportListing(r.Context(), userID, input.ListingID, input.Reason)
	if err != nil {
		if errors.Is(err, service.ErrEmptyReason) {
			writeError(w, http.StatusBadRequest, "EMPTY_REASON", "Report reason cannot be empty")
			return
		}
		log.Printf("ERROR create report: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"report": report})
}

// ListAll is admin only.
func (h *ReportHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	reports, err := h.reportService.ListAll(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		log.Printf("ERROR list reports: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// UpdateStatus is admin only.
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid report ID")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.reportService.UpdateStatus(r.Context(), userID, reportID, input.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		case errors.Is(err, service.ErrReportNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Report not found")
		case errors.Is(err, service.ErrInvalidReportState):
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be resolved or dismissed")
		default:
			log.Printf("ERROR update report: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
