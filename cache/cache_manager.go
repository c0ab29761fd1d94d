package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cached resources. Invalidation is keyed by resource identity: bumping a
// resource version drops every cached entry under it at once, so consumers
// always re-read server truth after a mutation regardless of how many
// mutations coalesced in between.
const (
	ResourceOrders      = "orders"
	ResourceOrderCounts = "order-counts"
)

const DefaultTTL = 5 * time.Minute

// Manager handles all Redis caching for the order endpoints.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{
		redis: redisClient,
		ttl:   DefaultTTL,
	}
}

// OrderPageKey builds a versioned cache key for one page of orders. Returns
// false when the version cannot be established; callers fall through to the
// database.
func (m *Manager) OrderPageKey(ctx context.Context, offset, size int, sortBy, direction, status string) (string, bool) {
	version, err := m.version(ctx, ResourceOrders)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:v:%d:o:%d:s:%d:sort:%s:%s:st:%s",
		ResourceOrders, version, offset, size, sortBy, direction, status), true
}

// GetOrderPage retrieves a cached page envelope into out.
func (m *Manager) GetOrderPage(ctx context.Context, key string, out interface{}) bool {
	cached, err := m.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(cached), out); err != nil {
		zap.L().Warn("Failed to unmarshal cached order page", zap.Error(err), zap.String("key", key))
		return false
	}
	return true
}

// SetOrderPageAsync caches a page envelope asynchronously.
func (m *Manager) SetOrderPageAsync(key string, page interface{}) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		jsonBytes, err := json.Marshal(page)
		if err != nil {
			zap.L().Warn("Failed to marshal order page for cache", zap.Error(err))
			return
		}
		if err := m.redis.Set(bgCtx, key, jsonBytes, m.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache order page", zap.Error(err), zap.String("key", key))
		}
	}()
}

// GetProcessingCount retrieves the cached PROCESSING badge count.
func (m *Manager) GetProcessingCount(ctx context.Context) (int64, bool) {
	version, err := m.version(ctx, ResourceOrderCounts)
	if err != nil {
		return 0, false
	}
	count, err := m.redis.Get(ctx, processingCountKey(version)).Int64()
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetProcessingCountAsync caches the PROCESSING badge count asynchronously.
func (m *Manager) SetProcessingCountAsync(count int64) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := m.version(bgCtx, ResourceOrderCounts)
		if err != nil {
			return
		}
		if err := m.redis.Set(bgCtx, processingCountKey(version), count, m.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache processing count", zap.Error(err))
		}
	}()
}

// Invalidate bumps the version of a resource so all cached entries under it
// fall out together.
func (m *Manager) Invalidate(ctx context.Context, resource string) error {
	newVersion, err := m.redis.Incr(ctx, versionKey(resource)).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate %s cache: %w", resource, err)
	}

	zap.L().Info("Cache invalidated",
		zap.String("resource", resource),
		zap.Int64("new_version", newVersion),
	)
	return nil
}

// version retrieves the current version of a resource, initializing it on
// first use.
func (m *Manager) version(ctx context.Context, resource string) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := m.redis.Get(ctx, versionKey(resource)).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			if err := m.redis.Set(ctx, versionKey(resource), 1, 0).Err(); err == nil {
				return 1, nil
			}
		}

		if i < maxRetries-1 {
			time.Sleep(time.Millisecond * 50)
		}
	}

	return 0, fmt.Errorf("failed to get %s cache version after %d retries", resource, maxRetries)
}

func versionKey(resource string) string {
	return resource + ":version"
}

func processingCountKey(version int64) string {
	return fmt.Sprintf("%s:v:%d:processing", ResourceOrderCounts, version)
}
