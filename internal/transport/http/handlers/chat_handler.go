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

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListConversations returns the viewer's derived conversation list, newest
// first. On failure the list is empty rather than absent.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	convs, err := h.chatService.GetAllConversations(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list conversations: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Could not load conversations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}
	otherID, err := uuid.Parse(r.PathValue("uid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	msgs, err := h.chatService.GetMessages(r.Context(), userID, listingID, otherID)
	if err != nil {
		log.Printf("ERROR list messages: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Could not load messages")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.ListingID == uuid.Nil || input.ReceiverID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "listing_id and receiver_id are required")
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBody):
			writeError(w, http.StatusBadRequest, "EMPTY_BODY", "Message body cannot be empty")
		case errors.Is(err, service.ErrSelfMessage):
			writeError(w, http.StatusBadRequest, "SELF_MESSAGE", "Cannot message yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Receiver not found")
		default:
			log.Printf("ERROR send message: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (h *ChatHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	var input struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.chatService.EditMessage(r.Context(), userID, messageID, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBody):
			writeError(w, http.StatusBadRequest, "EMPTY_BODY", "Message body cannot be empty")
		case errors.Is(err, service.ErrMessageNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Message not found")
		case errors.Is(err, service.ErrNotMessageOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only edit your own messages")
		case errors.Is(err, service.ErrEditWindowElapsed):
			writeError(w, http.StatusConflict, "EDIT_WINDOW_ELAPSED", "Messages can no longer be edited")
		default:
			log.Printf("ERROR edit message: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	if err := h.chatService.DeleteMessage(r.Context(), userID, messageID); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Message not found")
		case errors.Is(err, service.ErrNotMessageOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own messages")
		default:
			log.Printf("ERROR delete message: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkRead flips unread messages from one counterpart in one thread.
// Safe to call repeatedly; zero matching rows is still a success.
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		ListingID uuid.UUID `json:"listing_id"`
		UserID    uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.ListingID == uuid.Nil || input.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "listing_id and user_id are required")
		return
	}

	if err := h.chatService.MarkMessagesAsRead(r.Context(), userID, input.ListingID, input.UserID); err != nil {
		log.Printf("ERROR mark read: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	count, err := h.chatService.GetUnreadMessageCount(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR unread count: %v", err)
		// Badge counts degrade to zero rather than erroring the page.
		writeJSON(w, http.StatusOK, map[string]any{"count": 0})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}
