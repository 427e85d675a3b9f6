package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeThreadSubscribe   = "thread.subscribe"
	EventTypeThreadUnsubscribe = "thread.unsubscribe"
	EventTypeTypingStart       = "typing.start"
	EventTypeTypingStop        = "typing.stop"
	EventTypePing              = "ping"
)

// Event types - Server → Client
const (
	EventTypeMessageNew          = "message.new"
	EventTypeMessageUpdated      = "message.updated"
	EventTypeMessageDeleted      = "message.deleted"
	EventTypeMessagesRead        = "messages.read"
	EventTypeConversationRefresh = "conversation.refresh"
	EventTypeTyping              = "typing"
	EventTypeTypingStopped       = "typing.stopped"
	EventTypePong                = "pong"
	EventTypeError               = "error"
)

// Event is the base envelope for all WebSocket messages. ListingID scopes
// thread events; it is empty for broad events like conversation.refresh.
type Event struct {
	Type      string          `json:"type"`
	ListingID *uuid.UUID      `json:"listing_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

// ThreadPayload identifies one open conversation: the listing plus the
// counterpart the viewer is talking to.
type ThreadPayload struct {
	ListingID uuid.UUID `json:"listing_id"`
	PeerID    uuid.UUID `json:"peer_id"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

type MessageDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type MessagesReadPayload struct {
	ListingID uuid.UUID `json:"listing_id"`
	ReaderID  uuid.UUID `json:"reader_id"`
	SenderID  uuid.UUID `json:"sender_id"`
}

type TypingPayload struct {
	ListingID uuid.UUID `json:"listing_id"`
	UserID    uuid.UUID `json:"user_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, listingID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		ListingID: listingID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
