package domain

import (
	"context"
	"time"
)

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// LockManager provides distributed locking.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// ModelCache keeps the active model close to the API.
type ModelCache interface {
	GetActive(ctx context.Context) (Model, error)
	SetActive(ctx context.Context, m Model) error
	Invalidate(ctx context.Context) error
}

// StreamMessage represents a single entry from an event stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// EventBus fans out engine events and keeps a bounded durable history.
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}
