package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// TypingStore holds ephemeral "user is typing" state with a short TTL, so
// a client that just opened a thread can see an in-flight typing signal.
type TypingStore interface {
	Start(ctx context.Context, listingID, userID uuid.UUID) error
	Stop(ctx context.Context, listingID, userID uuid.UUID) error
	Active(ctx context.Context, listingID, userID uuid.UUID) (bool, error)
}

// Hub manages all active WebSocket clients and routes chat events. A user
// may hold several connections (tabs, devices); broad events reach all of
// them, thread events only the connections subscribed to that listing.
type Hub struct {
	// clients maps userID → the user's open connections.
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg

	typing TypingStore
}

type broadcastMsg struct {
	userIDs []uuid.UUID
	// listingID restricts delivery to connections subscribed to that
	// thread; nil delivers to every connection of the target users.
	listingID *uuid.UUID
	data      []byte
	excludeID *uuid.UUID // optional: skip this user (e.g. typing sender)
}

func NewHub(typing TypingStore) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		typing:     typing,
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			log.Printf("ws hub: user %s connected (%d conns)", client.userID, len(conns))

		case client := <-h.unregister:
			if h.dropClient(client) {
				log.Printf("ws hub: user %s disconnected", client.userID)
			}

		case msg := <-h.broadcast:
			for _, userID := range msg.userIDs {
				if msg.excludeID != nil && userID == *msg.excludeID {
					continue
				}
				for client := range h.clients[userID] {
					if msg.listingID != nil && !client.IsSubscribed(*msg.listingID) {
						continue
					}
					select {
					case client.send <- msg.data:
					default:
						// Client buffer full - disconnect
						h.dropClient(client)
					}
				}
			}
		}
	}
}

// dropClient removes one connection and signals its pumps via done. The
// send channel is never closed: the client's own goroutine may still be
// queueing a pong or error into it. Only the Run goroutine calls this.
func (h *Hub) dropClient(client *Client) bool {
	conns, ok := h.clients[client.userID]
	if !ok {
		return false
	}
	if _, ok := conns[client]; !ok {
		return false
	}
	delete(conns, client)
	close(client.done)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	return true
}

// BroadcastToThread sends an event to the given users' connections that
// have the listing's thread open.
func (h *Hub) BroadcastToThread(listingID uuid.UUID, userIDs []uuid.UUID, event *Event, excludeUserID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{
		userIDs:   userIDs,
		listingID: &listingID,
		data:      data,
		excludeID: excludeUserID,
	}
}

// BroadcastToUsers sends an event to every connection of the given users,
// regardless of which thread (if any) they have open.
func (h *Hub) BroadcastToUsers(userIDs []uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{userIDs: userIDs, data: data}
}

// HandleTyping records the sender's typing state and relays it to the
// counterpart's connections watching the same thread. Receivers clear the
// flag on their own 3s timer, so a lost typing.stop only lingers briefly.
func (h *Hub) HandleTyping(sender *Client, eventType string, p ThreadPayload) {
	ctx := context.Background()

	var relay string
	switch eventType {
	case EventTypeTypingStart:
		if err := h.typing.Start(ctx, p.ListingID, sender.userID); err != nil {
			log.Printf("ws hub: typing start: %v", err)
		}
		relay = EventTypeTyping
	case EventTypeTypingStop:
		if err := h.typing.Stop(ctx, p.ListingID, sender.userID); err != nil {
			log.Printf("ws hub: typing stop: %v", err)
		}
		relay = EventTypeTypingStopped
	default:
		return
	}

	evt, err := NewEvent(relay, &p.ListingID, TypingPayload{
		ListingID: p.ListingID,
		UserID:    sender.userID,
	})
	if err != nil {
		return
	}

	h.BroadcastToThread(p.ListingID, []uuid.UUID{p.PeerID}, evt, &sender.userID)
}

// sendInitialTyping tells a freshly subscribed client whether its
// counterpart is already mid-typing.
func (h *Hub) sendInitialTyping(client *Client, p ThreadPayload) {
	active, err := h.typing.Active(context.Background(), p.ListingID, p.PeerID)
	if err != nil || !active {
		return
	}
	evt, err := NewEvent(EventTypeTyping, &p.ListingID, TypingPayload{
		ListingID: p.ListingID,
		UserID:    p.PeerID,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
	}
}
