package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

var (
	ErrMessageNotFound   = errors.New("message not found")
	ErrNotMessageOwner   = errors.New("only the message sender can perform this action")
	ErrEmptyBody         = errors.New("message body cannot be empty")
	ErrSelfMessage       = errors.New("cannot message yourself")
	ErrEditWindowElapsed = errors.New("edit window has elapsed")
	ErrUserNotFound      = errors.New("user not found")
)

// Notifier broadcasts real-time chat events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyMessageEdited(msg *domain.Message)
	NotifyMessageDeleted(msg *domain.Message)
	NotifyMessagesRead(listingID, readerID, senderID uuid.UUID)
}

// MessagePusher delivers web push notifications for new messages. Push
// failures never fail the send itself.
type MessagePusher interface {
	SendMessagePush(ctx context.Context, receiverID uuid.UUID, senderName, listingTitle, body string)
}

type ChatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	editWindow  time.Duration
	notifier    Notifier
	pusher      MessagePusher
}

func NewChatService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, editWindow time.Duration) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		editWindow:  editWindow,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetPusher sets the web push sender (optional dependency).
func (s *ChatService) SetPusher(p MessagePusher) {
	s.pusher = p
}

type SendMessageInput struct {
	ListingID  uuid.UUID `json:"listing_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Body       string    `json:"body"`
}

// SendMessage validates and inserts a new unread message, then fans it out
// to both participants' live connections and the receiver's push endpoints.
func (s *ChatService) SendMessage(ctx context.Context, senderID uuid.UUID, input SendMessageInput) (*domain.Message, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrEmptyBody
	}
	if senderID == input.ReceiverID {
		return nil, ErrSelfMessage
	}

	receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrUserNotFound
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		ListingID:  input.ListingID,
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Body:       input.Body,
		Read:       false,
		CreatedAt:  time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}
	if s.pusher != nil {
		senderName := ""
		if full.Sender != nil {
			senderName = full.Sender.DisplayName
		}
		listingTitle := ""
		if full.Listing != nil {
			listingTitle = full.Listing.Title
		}
		go s.pusher.SendMessagePush(context.WithoutCancel(ctx), full.ReceiverID, senderName, listingTitle, full.Body)
	}

	return full, nil
}

// GetMessages returns the thread between the viewer and one counterpart on
// one listing, oldest first.
func (s *ChatService) GetMessages(ctx context.Context, viewerID, listingID, otherUserID uuid.UUID) ([]domain.Message, error) {
	msgs, err := s.messageRepo.ListThread(ctx, listingID, viewerID, otherUserID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// GetAllConversations derives the viewer's conversation list from their
// full message history. On a fetch error the list is empty, never nil.
func (s *ChatService) GetAllConversations(ctx context.Context, viewerID uuid.UUID) ([]domain.Conversation, error) {
	msgs, err := s.messageRepo.ListByUser(ctx, viewerID)
	if err != nil {
		return []domain.Conversation{}, err
	}
	return AggregateConversations(viewerID, msgs), nil
}

// MarkMessagesAsRead flips every unread message from the counterpart in one
// thread. Idempotent: a second call matches nothing and emits nothing.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, viewerID, listingID, otherUserID uuid.UUID) error {
	updated, err := s.messageRepo.MarkRead(ctx, listingID, viewerID, otherUserID)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}

	if updated > 0 && s.notifier != nil {
		s.notifier.NotifyMessagesRead(listingID, viewerID, otherUserID)
	}
	return nil
}

func (s *ChatService) GetUnreadMessageCount(ctx context.Context, viewerID uuid.UUID) (int, error) {
	return s.messageRepo.CountUnread(ctx, viewerID)
}

// EditMessage replaces the body of the sender's own message, only while the
// edit window since creation is still open.
func (s *ChatService) EditMessage(ctx context.Context, userID, messageID uuid.UUID, newBody string) (*domain.Message, error) {
	if strings.TrimSpace(newBody) == "" {
		return nil, ErrEmptyBody
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotMessageOwner
	}
	if time.Since(msg.CreatedAt) > s.editWindow {
		return nil, ErrEditWindowElapsed
	}

	msg.Body = newBody
	if err := s.messageRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	updated, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyMessageEdited(updated)
	}

	return updated, nil
}

// DeleteMessage hard-deletes the sender's own message. There is no
// tombstone; the realtime delete event is the only trace.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrNotMessageOwner
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyMessageDeleted(msg)
	}

	return nil
}
