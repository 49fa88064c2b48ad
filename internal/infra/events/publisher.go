// Package events hands schedule lifecycle events to the notification
// service over a Redis channel. Delivery itself is owned by that service;
// the core only publishes, best effort.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusChanged describes one schedule status change.
type StatusChanged struct {
	ScheduleID  string    `json:"schedule_id"`
	Status      string    `json:"status"`
	DonorID     string    `json:"donor_id"`
	CollectorID string    `json:"collector_id,omitempty"`
	At          time.Time `json:"at"`
}

// Publisher emits schedule lifecycle events.
type Publisher interface {
	StatusChanged(ctx context.Context, ev StatusChanged) error
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to Redis using a redis:// URL. The channel
// defaults to "schedule-events" when empty.
func NewRedisPublisher(redisURL, channel string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if channel == "" {
		channel = "schedule-events"
	}
	return &RedisPublisher{client: redis.NewClient(opt), channel: channel}, nil
}

// StatusChanged publishes the event as JSON.
func (p *RedisPublisher) StatusChanged(ctx context.Context, ev StatusChanged) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Close releases the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NopPublisher discards events; used when REDIS_URL is unset.
type NopPublisher struct{}

// StatusChanged does nothing.
func (NopPublisher) StatusChanged(context.Context, StatusChanged) error { return nil }

var (
	_ Publisher = (*RedisPublisher)(nil)
	_ Publisher = NopPublisher{}
)
