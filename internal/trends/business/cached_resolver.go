package business

import (
	"context"
	"errors"
	"fmt"
	"ktrend_api/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// unresolvedMarker caches "no entry" so unknown codes do not hit the store every request.
const unresolvedMarker = "\x00"

// KeyValueCache is the subset of *redis.Client the resolver cache needs.
type KeyValueCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedResolver is a keyed memo in front of another CategoryNamer. Cache failures
// degrade to the inner resolver.
type CachedResolver struct {
	inner CategoryNamer
	cache KeyValueCache
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedResolver(inner CategoryNamer, cache KeyValueCache, ttl time.Duration, log logger.Logger) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   logger.OrNop(log).WithPrefix("[CategoryCache]"),
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, platform, code string) (string, error) {
	key := categoryKey(platform, code)
	cached, err := c.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == unresolvedMarker {
			return "", nil
		}
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.log.Log("cache read %s failed: %v", key, err)
	}

	name, err := c.inner.Resolve(ctx, platform, code)
	if err != nil {
		return "", err
	}

	stored := name
	if stored == "" {
		stored = unresolvedMarker
	}
	if err := c.cache.Set(ctx, key, stored, c.ttl).Err(); err != nil {
		c.log.Log("cache write %s failed: %v", key, err)
	}
	return name, nil
}

func categoryKey(platform, code string) string {
	return fmt.Sprintf("ktrend:category:%s:%s", platform, code)
}
