package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/donaldgifford/alert-digest/internal/metrics"
)

// Fetch is a read-through wrapper around a source fetch. On a live cache
// entry it deserializes and returns without calling producer; on a miss it
// calls producer, stores the JSON-encoded result under key for ttl, and
// returns it. A nil cache, an unreadable entry, or a corrupt entry all
// degrade to a miss. Producer errors are returned untouched and nothing is
// cached for them.
func Fetch[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl time.Duration,
	producer func(context.Context) (T, error),
) (T, error) {
	var zero T

	if c != nil {
		raw, ok, err := c.Get(ctx, key)
		if err == nil && ok {
			var cached T
			if err := json.Unmarshal(raw, &cached); err == nil {
				metrics.CacheHitsTotal.WithLabelValues(key).Inc()
				return cached, nil
			}
			// Corrupt entry: fall through and refetch.
		}
	}
	metrics.CacheMissesTotal.WithLabelValues(key).Inc()

	result, err := producer(ctx)
	if err != nil {
		return zero, fmt.Errorf("fetching %s: %w", key, err)
	}

	if c != nil {
		if raw, err := json.Marshal(result); err == nil {
			// Best effort; a failed Put only costs a refetch next time.
			_ = c.Put(ctx, key, raw, ttl)
		}
	}

	return result, nil
}
