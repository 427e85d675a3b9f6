package ws

import (
	"log"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub. Every
// message mutation produces two signals: a thread-scoped event for open
// conversation views, and a broad conversation.refresh that tells every
// connection of both participants to recompute its conversation list and
// unread badges.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	n.notifyMessage(EventTypeMessageNew, msg)
}

func (n *HubNotifier) NotifyMessageEdited(msg *domain.Message) {
	n.notifyMessage(EventTypeMessageUpdated, msg)
}

func (n *HubNotifier) notifyMessage(eventType string, msg *domain.Message) {
	participants := []uuid.UUID{msg.SenderID, msg.ReceiverID}

	evt, err := NewEvent(eventType, &msg.ListingID, MessagePayload{Message: *msg})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToThread(msg.ListingID, participants, evt, nil)
	n.refreshConversations(participants)
}

func (n *HubNotifier) NotifyMessageDeleted(msg *domain.Message) {
	participants := []uuid.UUID{msg.SenderID, msg.ReceiverID}

	evt, err := NewEvent(EventTypeMessageDeleted, &msg.ListingID, MessageDeletedPayload{ID: msg.ID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToThread(msg.ListingID, participants, evt, nil)
	n.refreshConversations(participants)
}

func (n *HubNotifier) NotifyMessagesRead(listingID, readerID, senderID uuid.UUID) {
	participants := []uuid.UUID{readerID, senderID}

	evt, err := NewEvent(EventTypeMessagesRead, &listingID, MessagesReadPayload{
		ListingID: listingID,
		ReaderID:  readerID,
		SenderID:  senderID,
	})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToThread(listingID, participants, evt, nil)
	n.refreshConversations(participants)
}

func (n *HubNotifier) refreshConversations(userIDs []uuid.UUID) {
	evt, err := NewEvent(EventTypeConversationRefresh, nil, struct{}{})
	if err != nil {
		return
	}
	n.hub.BroadcastToUsers(userIDs, evt)
}
