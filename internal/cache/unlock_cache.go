package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnlockCache remembers which clients already entered an activation code,
// so a reload starts them at business details
type UnlockCache interface {
	MarkUnlocked(ctx context.Context, eventID, clientID string) error
	IsUnlocked(ctx context.Context, eventID, clientID string) (bool, error)
}

type unlockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUnlockCache creates a new unlock cache
func NewUnlockCache(client *redis.Client, ttl time.Duration) UnlockCache {
	return &unlockCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *unlockCache) key(eventID, clientID string) string {
	return fmt.Sprintf("event:%s:client:%s:unlocked", eventID, clientID)
}

func (c *unlockCache) MarkUnlocked(ctx context.Context, eventID, clientID string) error {
	return c.client.Set(ctx, c.key(eventID, clientID), "1", c.ttl).Err()
}

func (c *unlockCache) IsUnlocked(ctx context.Context, eventID, clientID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(eventID, clientID)).Result()
	return n > 0, err
}
