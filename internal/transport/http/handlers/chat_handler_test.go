package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
	"github.com/umelife/marketplace/internal/service"
	"github.com/umelife/marketplace/internal/transport/http/middleware"
)

func authedRequest(t *testing.T, method, target, body string, userID uuid.UUID) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func TestSendMessageHandler_EmptyBody(t *testing.T) {
	messageRepo := new(repository.MockMessageRepository)
	userRepo := new(repository.MockUserRepository)
	svc := service.NewChatService(messageRepo, userRepo, 2*time.Minute)
	h := NewChatHandler(svc)

	payload := `{"listing_id":"` + uuid.NewString() + `","receiver_id":"` + uuid.NewString() + `","body":"   "}`
	req := authedRequest(t, http.MethodPost, "/api/v1/messages", payload, uuid.New())
	rec := httptest.NewRecorder()

	h.SendMessage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_BODY", decodeError(t, rec))
}

func TestSendMessageHandler_Created(t *testing.T) {
	messageRepo := new(repository.MockMessageRepository)
	userRepo := new(repository.MockUserRepository)
	svc := service.NewChatService(messageRepo, userRepo, 2*time.Minute)
	h := NewChatHandler(svc)

	senderID := uuid.New()
	receiverID := uuid.New()
	listingID := uuid.New()

	userRepo.On("GetByID", mock.Anything, receiverID).Return(&domain.User{ID: receiverID}, nil)
	messageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	messageRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&domain.Message{
		ListingID:  listingID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       "hello",
	}, nil)

	payload := `{"listing_id":"` + listingID.String() + `","receiver_id":"` + receiverID.String() + `","body":"hello"}`
	req := authedRequest(t, http.MethodPost, "/api/v1/messages", payload, senderID)
	rec := httptest.NewRecorder()

	h.SendMessage(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestEditMessageHandler_WindowElapsed(t *testing.T) {
	messageRepo := new(repository.MockMessageRepository)
	svc := service.NewChatService(messageRepo, new(repository.MockUserRepository), 2*time.Minute)
	h := NewChatHandler(svc)

	senderID := uuid.New()
	messageID := uuid.New()
	messageRepo.On("GetByID", mock.Anything, messageID).Return(&domain.Message{
		ID:        messageID,
		SenderID:  senderID,
		CreatedAt: time.Now().Add(-10 * time.Minute),
	}, nil)

	req := authedRequest(t, http.MethodPatch, "/api/v1/messages/"+messageID.String(), `{"body":"too late"}`, senderID)
	req.SetPathValue("id", messageID.String())
	rec := httptest.NewRecorder()

	h.EditMessage(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EDIT_WINDOW_ELAPSED", decodeError(t, rec))
}

func TestDeleteMessageHandler_NotOwner(t *testing.T) {
	messageRepo := new(repository.MockMessageRepository)
	svc := service.NewChatService(messageRepo, new(repository.MockUserRepository), 2*time.Minute)
	h := NewChatHandler(svc)

	messageID := uuid.New()
	messageRepo.On("GetByID", mock.Anything, messageID).Return(&domain.Message{
		ID:       messageID,
		SenderID: uuid.New(),
	}, nil)

	req := authedRequest(t, http.MethodDelete, "/api/v1/messages/"+messageID.String(), "", uuid.New())
	req.SetPathValue("id", messageID.String())
	rec := httptest.NewRecorder()

	h.DeleteMessage(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListConversationsHandler(t *testing.T) {
	messageRepo := new(repository.MockMessageRepository)
	svc := service.NewChatService(messageRepo, new(repository.MockUserRepository), 2*time.Minute)
	h := NewChatHandler(svc)

	viewerID := uuid.New()
	otherID := uuid.New()
	listingID := uuid.New()
	messageRepo.On("ListByUser", mock.Anything, viewerID).Return([]domain.Message{
		{
			ID:         uuid.New(),
			ListingID:  listingID,
			SenderID:   otherID,
			ReceiverID: viewerID,
			Body:       "is it available?",
			CreatedAt:  time.Now(),
		},
	}, nil)

	req := authedRequest(t, http.MethodGet, "/api/v1/conversations", "", viewerID)
	rec := httptest.NewRecorder()

	h.ListConversations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Conversations []domain.Conversation `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Conversations, 1)
	assert.Equal(t, otherID, body.Conversations[0].OtherUserID)
	assert.Equal(t, 1, body.Conversations[0].UnreadCount)
}

func TestMarkReadHandler_MissingFields(t *testing.T) {
	svc := service.NewChatService(new(repository.MockMessageRepository), new(repository.MockUserRepository), 2*time.Minute)
	h := NewChatHandler(svc)

	req := authedRequest(t, http.MethodPost, "/api/v1/messages/read", `{}`, uuid.New())
	rec := httptest.NewRecorder()

	h.MarkRead(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_FIELDS", decodeError(t, rec))
}
