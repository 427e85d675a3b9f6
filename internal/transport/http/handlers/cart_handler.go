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

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		ListingID uuid.UUID `json:"listing_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.ListingID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "listing_id is required")
		return
	}

	if err := h.cartService.Add(r.Context(), userID, input.ListingID, input.Quantity); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
			return
		}
		log.Printf("ERROR add to cart: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.cartService.List(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list cart: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Could not load cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	if err := h.cartService.Remove(r.Context(), userID, listingID); err != nil {
		log.Printf("ERROR remove from cart: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
