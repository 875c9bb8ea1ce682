// internal/source/cached.go
//
// Valkey-backed copy of the catalog document.
//
// Context
// -------
// Several web instances behind one load balancer would otherwise each hit
// the upstream on boot and after every failure.  Cached keeps the raw
// bytes in Valkey for a TTL so only the first instance pays for the fetch.
//
// Notes
// -----
// • Cache trouble never fails a Fetch.  Get and Set errors are logged,
//   counted, and the upstream answer is used.
// • Only documents that decode as a catalog are stored, so a broken upload
//   is not pinned for a whole TTL.

package source

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/metrics"
)

const (
	// keyPrefix is the Valkey key prefix for cached documents.
	keyPrefix = "kili:catalog:"

	// DefaultTTL is how long a document stays cached.
	DefaultTTL = 5 * time.Minute
)

// Cached wraps an upstream Source with a Valkey cache.
type Cached struct {
	upstream Source
	client   *redis.Client
	ttl      time.Duration
	key      string
}

// NewCached wraps upstream.  ttl <= 0 uses DefaultTTL.
func NewCached(upstream Source, client *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{
		upstream: upstream,
		client:   client,
		ttl:      ttl,
		key:      keyPrefix + upstream.Name(),
	}
}

func (c *Cached) Name() string { return c.upstream.Name() }

func (c *Cached) Fetch(ctx context.Context) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		metrics.SourceCacheTotal.WithLabelValues("hit").Inc()
		zap.S().Debugw("catalog cache hit", "key", c.key)
		return val, nil
	case errors.Is(err, redis.Nil):
		metrics.SourceCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.SourceCacheTotal.WithLabelValues("error").Inc()
		zap.S().Warnw("catalog cache get error", "key", c.key, "err", err)
	}

	data, err := c.upstream.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.Decode(data); err != nil {
		zap.S().Debugw("catalog cache skip", "key", c.key, "err", err)
		return data, nil
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		zap.S().Warnw("catalog cache set error", "key", c.key, "err", err)
	}
	return data, nil
}

// Invalidate drops the cached copy so the next Fetch goes upstream.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

// Close releases the Valkey connection pool.
func (c *Cached) Close() error { return c.client.Close() }
