package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTypingStore struct {
	mu     sync.Mutex
	active map[string]bool
}

func newMemTypingStore() *memTypingStore {
	return &memTypingStore{active: make(map[string]bool)}
}

func (s *memTypingStore) key(listingID, userID uuid.UUID) string {
	return listingID.String() + ":" + userID.String()
}

func (s *memTypingStore) Start(ctx context.Context, listingID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[s.key(listingID, userID)] = true
	return nil
}

func (s *memTypingStore) Stop(ctx context.Context, listingID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, s.key(listingID, userID))
	return nil
}

func (s *memTypingStore) Active(ctx context.Context, listingID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[s.key(listingID, userID)], nil
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(newMemTypingStore())
	go hub.Run()
	return hub
}

func recvEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		return &evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastReachesEveryConnectionOfUser(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()

	// Same user in two tabs.
	tab1 := NewClient(hub, nil, userID)
	tab2 := NewClient(hub, nil, userID)
	hub.register <- tab1
	hub.register <- tab2

	evt, err := NewEvent(EventTypeConversationRefresh, nil, struct{}{})
	require.NoError(t, err)
	hub.BroadcastToUsers([]uuid.UUID{userID}, evt)

	assert.Equal(t, EventTypeConversationRefresh, recvEvent(t, tab1).Type)
	assert.Equal(t, EventTypeConversationRefresh, recvEvent(t, tab2).Type)
}

func TestHub_ThreadEventsOnlyReachSubscribedConnections(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	listingID := uuid.New()

	open := NewClient(hub, nil, userID)
	open.Subscribe(listingID)
	closed := NewClient(hub, nil, userID)
	hub.register <- open
	hub.register <- closed

	evt, err := NewEvent(EventTypeMessageNew, &listingID, MessageDeletedPayload{ID: uuid.New()})
	require.NoError(t, err)
	hub.BroadcastToThread(listingID, []uuid.UUID{userID}, evt, nil)

	got := recvEvent(t, open)
	assert.Equal(t, EventTypeMessageNew, got.Type)
	require.NotNil(t, got.ListingID)
	assert.Equal(t, listingID, *got.ListingID)

	assertNoEvent(t, closed)
}

func TestHub_TypingRelayExcludesSender(t *testing.T) {
	hub := startHub(t)
	listingID := uuid.New()
	senderID := uuid.New()
	peerID := uuid.New()

	sender := NewClient(hub, nil, senderID)
	sender.Subscribe(listingID)
	peer := NewClient(hub, nil, peerID)
	peer.Subscribe(listingID)
	hub.register <- sender
	hub.register <- peer

	hub.HandleTyping(sender, EventTypeTypingStart, ThreadPayload{ListingID: listingID, PeerID: peerID})

	got := recvEvent(t, peer)
	assert.Equal(t, EventTypeTyping, got.Type)

	var p TypingPayload
	require.NoError(t, json.Unmarshal(got.Payload, &p))
	assert.Equal(t, senderID, p.UserID)

	assertNoEvent(t, sender)

	active, err := hub.typing.Active(context.Background(), listingID, senderID)
	require.NoError(t, err)
	assert.True(t, active, "typing state is recorded for late subscribers")
}

func TestHub_SlowConnectionDropIsSafe(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()

	slow := NewClient(hub, nil, userID)
	hub.register <- slow

	// Fill the outbound buffer so the next broadcast overflows it.
	for i := 0; i < sendBufSize; i++ {
		slow.send <- []byte("{}")
	}

	evt, err := NewEvent(EventTypeConversationRefresh, nil, struct{}{})
	require.NoError(t, err)
	hub.BroadcastToUsers([]uuid.UUID{userID}, evt)

	select {
	case <-slow.done:
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}

	// The dropped connection's read goroutine can still try to queue a
	// pong or an error; neither may panic.
	assert.NotPanics(t, func() { slow.sendPong() })
	assert.NotPanics(t, func() { slow.sendError("SLOW", "buffer overflow") })

	// The read pump unregisters on its way out; the second removal is a
	// no-op and the user can reconnect afterwards.
	hub.unregister <- slow

	fresh := NewClient(hub, nil, userID)
	hub.register <- fresh
	hub.BroadcastToUsers([]uuid.UUID{userID}, evt)
	assert.Equal(t, EventTypeConversationRefresh, recvEvent(t, fresh).Type)
}

func TestHub_SubscribeSeesInFlightTyping(t *testing.T) {
	hub := startHub(t)
	listingID := uuid.New()
	peerID := uuid.New()

	require.NoError(t, hub.typing.Start(context.Background(), listingID, peerID))

	viewer := NewClient(hub, nil, uuid.New())
	hub.register <- viewer

	hub.sendInitialTyping(viewer, ThreadPayload{ListingID: listingID, PeerID: peerID})

	got := recvEvent(t, viewer)
	assert.Equal(t, EventTypeTyping, got.Type)
}
