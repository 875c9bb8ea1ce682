// internal/source/source.go
//
// Catalog document sources.
//
// Context
// -------
// The catalog is one JSON document.  Where it lives depends on the
// deployment: a file next to the binary, a URL on the static host that
// serves the front end, or an object in an S3-compatible bucket.  Every
// backend satisfies Source; New picks one from config and, when a Valkey
// address is configured, wraps it in a shared cache.
//
// Notes
// -----
// • A Source performs exactly one attempt per Fetch.  Retrying is the
//   caller's decision (the catalog store retries on the next request).
// • Fetch must be safe for concurrent use.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/config"
)

// maxDocumentBytes caps what any backend will read.  A var so tests can
// lower it.
var maxDocumentBytes int64 = 32 << 20

// ErrTooLarge is returned when a document is bigger than maxDocumentBytes.
var ErrTooLarge = errors.New("document too large")

// readDocument reads r in full, failing rather than truncating when r holds
// more than maxDocumentBytes.
func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, maxDocumentBytes)
	}
	return data, nil
}

// Source delivers the raw catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// New builds the configured source.  The returned value also implements
// io.Closer when it holds a network client that needs releasing.
func New(cat config.Catalog, cache config.Cache) (Source, error) {
	var src Source
	switch cat.Source {
	case "file":
		src = &File{Path: cat.Path}
	case "http":
		src = NewHTTP(cat.URL, cat.FetchTimeout)
	case "s3":
		src = NewS3(cat.S3, cat.FetchTimeout)
	default:
		return nil, fmt.Errorf("source: unknown kind %q", cat.Source)
	}

	if cache.ValkeyAddr == "" {
		return src, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cache.ValkeyAddr,
		Password: cache.ValkeyPassword,
		DB:       cache.ValkeyDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// The client reconnects on its own; until then every Fetch falls
		// through to the upstream.
		zap.S().Warnw("valkey ping failed", "addr", cache.ValkeyAddr, "err", err)
	} else {
		zap.S().Infow("valkey connected", "addr", cache.ValkeyAddr)
	}
	return NewCached(src, client, cache.TTL), nil
}
