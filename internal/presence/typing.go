package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// typingTTL bounds how long a typing signal survives a lost typing.stop.
const typingTTL = 3 * time.Second

// TypingStore keeps "user is typing on listing X" flags in Redis with a
// short TTL. Typing has no durability requirement, so nothing is ever
// written to Postgres; the key either exists right now or it doesn't.
type TypingStore struct {
	rdb *redis.Client
}

func NewTypingStore(rdb *redis.Client) *TypingStore {
	return &TypingStore{rdb: rdb}
}

func typingKey(listingID, userID uuid.UUID) string {
	return fmt.Sprintf("typing:%s:%s", listingID, userID)
}

// Start sets or refreshes the flag. Called on each (debounced) keystroke.
func (s *TypingStore) Start(ctx context.Context, listingID, userID uuid.UUID) error {
	return s.rdb.Set(ctx, typingKey(listingID, userID), 1, typingTTL).Err()
}

// Stop clears the flag immediately. The TTL covers clients that vanish
// without sending typing.stop.
func (s *TypingStore) Stop(ctx context.Context, listingID, userID uuid.UUID) error {
	return s.rdb.Del(ctx, typingKey(listingID, userID)).Err()
}

// Active reports whether the flag currently exists.
func (s *TypingStore) Active(ctx context.Context, listingID, userID uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, typingKey(listingID, userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
