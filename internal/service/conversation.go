package service

import (
	"sort"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
)

type conversationKey struct {
	listingID   uuid.UUID
	otherUserID uuid.UUID
}

// AggregateConversations folds a viewer's flat message history into one
// conversation per (listing, counterpart) pair. The representative last
// message is the newest in each bucket; the unread count scans the whole
// bucket, since an older message can still be unread after a newer one
// was answered. Result is ordered by last message time descending.
//
// Pure function: no store access, safe to call on every realtime event.
func AggregateConversations(viewerID uuid.UUID, msgs []domain.Message) []domain.Conversation {
	convs := make([]domain.Conversation, 0, len(msgs))
	index := make(map[conversationKey]int)

	for _, m := range msgs {
		otherID := m.CounterpartOf(viewerID)
		key := conversationKey{listingID: m.ListingID, otherUserID: otherID}

		i, ok := index[key]
		if !ok {
			other := m.Sender
			if m.SenderID == viewerID {
				other = m.Receiver
			}
			convs = append(convs, domain.Conversation{
				ListingID:       m.ListingID,
				OtherUserID:     otherID,
				Listing:         m.Listing,
				OtherUser:       other,
				LastMessage:     m.Body,
				LastMessageTime: m.CreatedAt,
			})
			i = len(convs) - 1
			index[key] = i
		} else if m.CreatedAt.After(convs[i].LastMessageTime) {
			// Callers pass messages newest-first, so this only fires on
			// unsorted input.
			convs[i].LastMessage = m.Body
			convs[i].LastMessageTime = m.CreatedAt
		}

		if m.ReceiverID == viewerID && !m.Read {
			convs[i].UnreadCount++
		}
	}

	sort.SliceStable(convs, func(a, b int) bool {
		return convs[a].LastMessageTime.After(convs[b].LastMessageTime)
	})

	return convs
}
