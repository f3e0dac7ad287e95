// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"country_explorer/internal/feature/favorites/domain/entity"
	"country_explorer/internal/feature/favorites/usecase"
)

// CachingFavoriteRepository decorates a FavoriteRepository with a Redis cache of each user's list.
// Lists are cached under a per-user version. Every successful write bumps the version, so a list
// loaded before the write is stored under a key no reader looks up anymore.
// Cache failures never fail a request.
type CachingFavoriteRepository struct {
	inner     usecase.FavoriteRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.FavoriteRepository = (*CachingFavoriteRepository)(nil)

// NewCachingFavoriteRepository decorates a FavoriteRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "favorites".
// A nil rdb makes every call pass through to inner.
func NewCachingFavoriteRepository(rdb *redis.Client, ttl time.Duration, inner usecase.FavoriteRepository, namespace string) *CachingFavoriteRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "favorites"
	}
	return &CachingFavoriteRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the favorite and invalidates the owner's cached list.
func (c *CachingFavoriteRepository) Create(ctx context.Context, f *entity.Favorite) error {
	if err := c.inner.Create(ctx, f); err != nil {
		return err
	}
	c.invalidate(ctx, f.UserID)
	return nil
}

// DeleteOne removes the favorite and invalidates the owner's cached list.
func (c *CachingFavoriteRepository) DeleteOne(ctx context.Context, userID, code string) (*entity.Favorite, error) {
	f, err := c.inner.DeleteOne(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, userID)
	return f, nil
}

// DeleteAllByUser removes the user's favorites and invalidates the cached list.
func (c *CachingFavoriteRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	n, err := c.inner.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, userID)
	return n, nil
}

// ListByUser returns the cached list when present, otherwise loads it and caches it.
func (c *CachingFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListByUser(ctx, userID)
	}

	// 1) Resolve the list version before touching the store
	version, err := c.rdb.Get(ctx, c.versionKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("favorites cache version lookup failed", "user_id", userID, "error", err)
		return c.inner.ListByUser(ctx, userID)
	}
	key := c.cacheKey(userID, version)

	// 2) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Favorite
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 3) Fallback to the store
	out, err := c.inner.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 4) Store under the version read in step 1 (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("favorites cache set failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// invalidate moves the user to a new list version.
// If the bump fails the current entry is deleted instead; the TTL bounds anything that survives both.
func (c *CachingFavoriteRepository) invalidate(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	verKey := c.versionKey(userID)
	if err := c.rdb.Incr(ctx, verKey).Err(); err != nil {
		slog.Warn("favorites cache version bump failed", "key", verKey, "error", err)
		c.dropCurrent(ctx, userID)
	}
}

func (c *CachingFavoriteRepository) dropCurrent(ctx context.Context, userID string) {
	version, err := c.rdb.Get(ctx, c.versionKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return
	}
	key := c.cacheKey(userID, version)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		slog.Warn("favorites cache invalidation failed", "key", key, "error", err)
	}
}

// versionKey holds the counter bumped on every write for the user.
func (c *CachingFavoriteRepository) versionKey(userID string) string {
	return fmt.Sprintf("%s:user:%s:ver", c.namespace, safe(userID))
}

// cacheKey generates the cache key holding a user's list at the given version.
func (c *CachingFavoriteRepository) cacheKey(userID string, version int64) string {
	return fmt.Sprintf("%s:user:%s:v%d", c.namespace, safe(userID), version)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
