package cache

import (
	"context"
	"time"
)

// Store is the key-value surface consumed by the scrape pipelines. A dead
// backing store must degrade to always-miss: Get reports a miss and Set is a
// no-op, never an error that reaches the caller.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Health() map[string]interface{}
	Close() error
}

var _ Store = (*Cache)(nil)
