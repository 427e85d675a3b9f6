package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

type recordingNotifier struct {
	newMessages []*domain.Message
	edited      []*domain.Message
	deleted     []*domain.Message
	readEvents  int
}

func (n *recordingNotifier) NotifyNewMessage(msg *domain.Message)     { n.newMessages = append(n.newMessages, msg) }
func (n *recordingNotifier) NotifyMessageEdited(msg *domain.Message)  { n.edited = append(n.edited, msg) }
func (n *recordingNotifier) NotifyMessageDeleted(msg *domain.Message) { n.deleted = append(n.deleted, msg) }
func (n *recordingNotifier) NotifyMessagesRead(listingID, readerID, senderID uuid.UUID) {
	n.readEvents++
}

func newChatFixture(editWindow time.Duration) (*ChatService, *repository.MockMessageRepository, *repository.MockUserRepository, *recordingNotifier) {
	messageRepo := new(repository.MockMessageRepository)
	userRepo := new(repository.MockUserRepository)
	notifier := &recordingNotifier{}

	svc := NewChatService(messageRepo, userRepo, editWindow)
	svc.SetNotifier(notifier)
	return svc, messageRepo, userRepo, notifier
}

func TestSendMessage_EmptyBody(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)

	_, err := svc.SendMessage(context.Background(), uuid.New(), SendMessageInput{
		ListingID:  uuid.New(),
		ReceiverID: uuid.New(),
		Body:       "   \n\t ",
	})

	assert.ErrorIs(t, err, ErrEmptyBody)
	messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendMessage_ToSelf(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	userID := uuid.New()

	_, err := svc.SendMessage(context.Background(), userID, SendMessageInput{
		ListingID:  uuid.New(),
		ReceiverID: userID,
		Body:       "hello me",
	})

	assert.ErrorIs(t, err, ErrSelfMessage)
	messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendMessage_ReceiverMissing(t *testing.T) {
	svc, _, userRepo, _ := newChatFixture(2 * time.Minute)
	receiverID := uuid.New()

	userRepo.On("GetByID", mock.Anything, receiverID).Return(nil, nil)

	_, err := svc.SendMessage(context.Background(), uuid.New(), SendMessageInput{
		ListingID:  uuid.New(),
		ReceiverID: receiverID,
		Body:       "hi",
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendMessage_StoresUnreadAndNotifies(t *testing.T) {
	svc, messageRepo, userRepo, notifier := newChatFixture(2 * time.Minute)
	senderID := uuid.New()
	receiverID := uuid.New()
	listingID := uuid.New()

	userRepo.On("GetByID", mock.Anything, receiverID).Return(&domain.User{ID: receiverID}, nil)

	var stored *domain.Message
	messageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Message)
		}).
		Return(nil)
	messageRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Message{
			ListingID:  listingID,
			SenderID:   senderID,
			ReceiverID: receiverID,
			Body:       "is this still available?",
			Sender:     &domain.UserSummary{ID: senderID, DisplayName: "Sam"},
		}, nil)

	msg, err := svc.SendMessage(context.Background(), senderID, SendMessageInput{
		ListingID:  listingID,
		ReceiverID: receiverID,
		Body:       "is this still available?",
	})
	require.NoError(t, err)
	require.NotNil(t, msg)

	require.NotNil(t, stored)
	assert.False(t, stored.Read, "new messages start unread")
	assert.Equal(t, senderID, stored.SenderID)

	require.Len(t, notifier.newMessages, 1)
	assert.Equal(t, "is this still available?", notifier.newMessages[0].Body)
}

func TestEditMessage_WindowElapsed(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	senderID := uuid.New()
	messageID := uuid.New()

	messageRepo.On("GetByID", mock.Anything, messageID).Return(&domain.Message{
		ID:        messageID,
		SenderID:  senderID,
		Body:      "typo here",
		CreatedAt: time.Now().Add(-3 * time.Minute),
	}, nil)

	_, err := svc.EditMessage(context.Background(), senderID, messageID, "fixed")

	assert.ErrorIs(t, err, ErrEditWindowElapsed)
	messageRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEditMessage_WithinWindow(t *testing.T) {
	svc, messageRepo, _, notifier := newChatFixture(2 * time.Minute)
	senderID := uuid.New()
	messageID := uuid.New()

	original := &domain.Message{
		ID:        messageID,
		SenderID:  senderID,
		Body:      "typo here",
		CreatedAt: time.Now().Add(-30 * time.Second),
	}
	messageRepo.On("GetByID", mock.Anything, messageID).Return(original, nil)
	messageRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)

	msg, err := svc.EditMessage(context.Background(), senderID, messageID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", msg.Body)
	assert.Len(t, notifier.edited, 1)
}

func TestEditMessage_NotOwner(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	messageID := uuid.New()

	messageRepo.On("GetByID", mock.Anything, messageID).Return(&domain.Message{
		ID:        messageID,
		SenderID:  uuid.New(),
		CreatedAt: time.Now(),
	}, nil)

	_, err := svc.EditMessage(context.Background(), uuid.New(), messageID, "hijacked")
	assert.ErrorIs(t, err, ErrNotMessageOwner)
}

func TestEditMessage_NotFound(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	messageID := uuid.New()

	messageRepo.On("GetByID", mock.Anything, messageID).Return(nil, nil)

	_, err := svc.EditMessage(context.Background(), uuid.New(), messageID, "anything")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDeleteMessage_NotOwner(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	messageID := uuid.New()

	messageRepo.On("GetByID", mock.Anything, messageID).Return(&domain.Message{
		ID:       messageID,
		SenderID: uuid.New(),
	}, nil)

	err := svc.DeleteMessage(context.Background(), uuid.New(), messageID)
	assert.ErrorIs(t, err, ErrNotMessageOwner)
	messageRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteMessage_NotifiesWithOriginal(t *testing.T) {
	svc, messageRepo, _, notifier := newChatFixture(2 * time.Minute)
	senderID := uuid.New()
	messageID := uuid.New()

	msg := &domain.Message{ID: messageID, SenderID: senderID, Body: "gone soon"}
	messageRepo.On("GetByID", mock.Anything, messageID).Return(msg, nil)
	messageRepo.On("Delete", mock.Anything, messageID).Return(nil)

	require.NoError(t, svc.DeleteMessage(context.Background(), senderID, messageID))

	require.Len(t, notifier.deleted, 1)
	assert.Equal(t, messageID, notifier.deleted[0].ID)
}

func TestMarkMessagesAsRead_NotifiesOnlyWhenRowsChanged(t *testing.T) {
	svc, messageRepo, _, notifier := newChatFixture(2 * time.Minute)
	viewerID := uuid.New()
	listingID := uuid.New()
	otherID := uuid.New()

	messageRepo.On("MarkRead", mock.Anything, listingID, viewerID, otherID).Return(int64(3), nil).Once()
	require.NoError(t, svc.MarkMessagesAsRead(context.Background(), viewerID, listingID, otherID))
	assert.Equal(t, 1, notifier.readEvents)

	// Second call matches nothing and stays silent.
	messageRepo.On("MarkRead", mock.Anything, listingID, viewerID, otherID).Return(int64(0), nil).Once()
	require.NoError(t, svc.MarkMessagesAsRead(context.Background(), viewerID, listingID, otherID))
	assert.Equal(t, 1, notifier.readEvents)
}

func TestGetAllConversations_ErrorYieldsEmptyList(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	viewerID := uuid.New()

	messageRepo.On("ListByUser", mock.Anything, viewerID).Return(nil, errors.New("db down"))

	convs, err := svc.GetAllConversations(context.Background(), viewerID)
	assert.Error(t, err)
	require.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestGetMessages_EmptyThreadIsNotNil(t *testing.T) {
	svc, messageRepo, _, _ := newChatFixture(2 * time.Minute)
	listingID := uuid.New()
	viewerID := uuid.New()
	otherID := uuid.New()

	messageRepo.On("ListThread", mock.Anything, listingID, viewerID, otherID).Return(nil, nil)

	msgs, err := svc.GetMessages(context.Background(), viewerID, listingID, otherID)
	require.NoError(t, err)
	require.NotNil(t, msgs)
	assert.Empty(t, msgs)
}
