package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Cache stores finished genre recommendations per user, catalog kind and
// catalog version. The similarity matrix itself is never stored here.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// buildKey scopes an entry to the catalog version it was computed from, so
// entries of an older catalog are never read back and simply expire.
func buildKey(userID int64, kind domain.Kind, version uint64) string {
	return fmt.Sprintf("rec:user:%d:kind:%s:cat:%016x", userID, kind, version)
}

// Get recommendations from cache. found is false on a miss.
func (c *Cache) Get(ctx context.Context, userID int64, kind domain.Kind, version uint64) (domain.GenreRecommendations, bool, error) {
	key := buildKey(userID, kind, version)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var lists []domain.GenreList
	if err := json.Unmarshal(val, &lists); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}
	return domain.GenreRecommendations(lists), true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, userID int64, kind domain.Kind, version uint64, recs domain.GenreRecommendations) error {
	key := buildKey(userID, kind, version)
	val, err := json.Marshal([]domain.GenreList(recs))
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}
	return nil
}

// Clear user cache: used when ratings or favorite genres change
func (c *Cache) ClearUserCache(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("rec:user:%d:kind:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
