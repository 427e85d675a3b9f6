package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/umelife/marketplace/internal/service"
	"github.com/umelife/marketplace/internal/transport/http/middleware"
)

type PushHandler struct {
	pushService *service.PushService
}

func NewPushHandler(pushService *service.PushService) *PushHandler {
	return &PushHandler{pushService: pushService}
}

// PublicKey hands the VAPID public key to the browser so it can subscribe.
func (h *PushHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.pushService.VAPIDPublicKey()})
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.SubscribeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if ua := r.Header.Get("User-Agent"); ua != "" && input.UserAgent == nil {
		input.UserAgent = &ua
	}

	if err := h.pushService.Subscribe(r.Context(), userID, input); err != nil {
		if errors.Is(err, service.ErrMissingEndpoint) {
			writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "endpoint is required")
			return
		}
		log.Printf("ERROR push subscribe: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.pushService.Unsubscribe(r.Context(), userID, input.Endpoint); err != nil {
		if errors.Is(err, service.ErrMissingEndpoint) {
			writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "endpoint is required")
			return
		}
		log.Printf("ERROR push unsubscribe: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
