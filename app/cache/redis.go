package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client for query result caching. The connection is
// established lazily on first command and reused across queries; an
// unreachable Redis turns every lookup into a miss instead of an error.
type Cache struct {
	client *redis.Client
}

func NewCache(addr string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &Cache{client: client}
}

// Key builds the deterministic cache key for a query. Option filters do not
// participate in the key; they are accepted at the boundary but inert.
func Key(source, keyword string, maxResults int) string {
	return fmt.Sprintf("%s:%s:%d", source, keyword, maxResults)
}

// Get retrieves a value from cache. The second return value is false on a
// miss or on any Redis error.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("Cache unavailable, treating as miss", "key", key, "error", err)
		return "", false
	}
	return val, true
}

// Set stores a value in cache with TTL. Errors are logged and swallowed;
// caching is best-effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	var data []byte
	var err error

	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		data, err = json.Marshal(value)
		if err != nil {
			slog.Error("Failed to marshal cache value", "key", key, "error", err)
			return
		}
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("Failed to store cache value", "key", key, "error", err)
	}
}

func (c *Cache) Health() map[string]interface{} {
	health := map[string]interface{}{
		"status": "healthy",
		"type":   "redis",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	if dbSize, err := c.client.DBSize(ctx).Result(); err == nil {
		health["key_count"] = dbSize
	}

	return health
}

func (c *Cache) Close() error {
	return c.client.Close()
}
