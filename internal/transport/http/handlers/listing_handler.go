package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/service"
	"github.com/umelife/marketplace/internal/transport/http/middleware"
	"github.com/umelife/marketplace/pkg/validator"
)

type ListingHandler struct {
	listingService *service.ListingService
}

func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateListing(input.Title, input.Description, input.PriceCents); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	listing, err := h.listingService.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, "INVALID_CATEGORY", "Unknown listing category")
			return
		}
		log.Printf("ERROR create listing: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"listing": listing})
}

// List supports category, search, max_price_cents and user_id query filters.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ListingFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if raw := q.Get("max_price_cents"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			filter.MaxPriceCents = v
		}
	}
	if raw := q.Get("user_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.UserID = id
		}
	}

	listings, err := h.listingService.List(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR list listings: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Could not load listings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	listing, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
			return
		}
		log.Printf("ERROR get listing: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"listing": listing})
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	var input service.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateListing(input.Title, input.Description, input.PriceCents); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	listing, err := h.listingService.Update(r.Context(), userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
		case errors.Is(err, service.ErrNotListingOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only edit your own listings")
		case errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "INVALID_CATEGORY", "Unknown listing category")
		default:
			log.Printf("ERROR update listing: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"listing": listing})
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	if err := h.listingService.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
		case errors.Is(err, service.ErrNotListingOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own listings")
		default:
			log.Printf("ERROR delete listing: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Categories returns the fixed category set so the frontend never hardcodes it.
func (h *ListingHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": domain.ListingCategories})
}
