package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

const activeModelTTL = time.Minute

var activeModelKey = keyPrefix + "model:active"

// ModelCache implements domain.ModelCache with a single JSON string key.
type ModelCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewModelCache creates a ModelCache backed by the given Client.
func NewModelCache(c *Client) *ModelCache {
	return &ModelCache{rdb: c.rdb, ttl: activeModelTTL}
}

// GetActive returns the cached active model or domain.ErrNotFound on a miss.
func (mc *ModelCache) GetActive(ctx context.Context) (domain.Model, error) {
	data, err := mc.rdb.Get(ctx, activeModelKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Model{}, domain.ErrNotFound
		}
		return domain.Model{}, fmt.Errorf("redis: get active model: %w", err)
	}
	var m domain.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Model{}, fmt.Errorf("redis: unmarshal active model: %w", err)
	}
	return m, nil
}

// SetActive caches m as the active model.
func (mc *ModelCache) SetActive(ctx context.Context, m domain.Model) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("redis: marshal model %s: %w", m.ID, err)
	}
	if err := mc.rdb.Set(ctx, activeModelKey, data, mc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set active model: %w", err)
	}
	return nil
}

// Invalidate drops the cached active model.
func (mc *ModelCache) Invalidate(ctx context.Context) error {
	if err := mc.rdb.Del(ctx, activeModelKey).Err(); err != nil {
		return fmt.Errorf("redis: invalidate active model: %w", err)
	}
	return nil
}

var _ domain.ModelCache = (*ModelCache)(nil)
