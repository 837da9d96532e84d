package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"liveexperience/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventCache handles Redis read-through caching of event metadata
type EventCache interface {
	Set(ctx context.Context, event *model.Event) error
	Get(ctx context.Context, id string) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache creates a new event cache
func NewEventCache(client *redis.Client) EventCache {
	return &eventCache{
		client: client,
		ttl:    24 * time.Hour, // Events expire after 24h
	}
}

func (c *eventCache) key(id string) string {
	return fmt.Sprintf("event:%s", id)
}

func (c *eventCache) Set(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(event.ID), data, c.ttl).Err()
}

func (c *eventCache) Get(ctx context.Context, id string) (*model.Event, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var event model.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *eventCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
