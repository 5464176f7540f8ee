package stores

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 10 * time.Minute

// RedisDedupStore remembers inbound message ids so webhook redeliveries
// are dropped instead of replayed through the conversation engine.
type RedisDedupStore struct {
	client *redis.Client
}

func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

// MarkSeen returns true the first time an event id is observed.
func (s *RedisDedupStore) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	return s.client.SetNX(ctx, "inbound:"+eventID, 1, dedupTTL).Result()
}
