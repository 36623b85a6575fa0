// Package cache provides a byte-value cache behind interchangeable file,
// Redis and Memcached backends.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/causeway-org/causeway/internal/config"
	applog "github.com/causeway-org/causeway/internal/logger"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("cache key not found")

// Stats counts lookups since the store was opened.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Store is the backend contract. Values are opaque bytes; a zero TTL means
// the configured default, a negative TTL never expires (file backend) or
// falls back to the default (remote backends reject negatives).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear wipes the backend's whole keyspace, which on the remote
	// backends includes keys written by other applications sharing the
	// server. Use a dedicated database or instance.
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
	GetMultiple(ctx context.Context, keys []string) (map[string][]byte, error)
	SetMultiple(ctx context.Context, values map[string][]byte, ttl time.Duration) error
	DeleteMultiple(ctx context.Context, keys []string) error
	Stats() Stats
	Close() error
}

// New opens the backend named by cfg.Driver.
func New(cfg config.Cache, log *applog.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg, log)
	case "redis":
		return NewRedisStore(cfg, log)
	case "memcached":
		return NewMemcachedStore(cfg, log)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Remember returns the cached value for key, or runs producer, stores its
// result and returns it. Concurrent callers missing the same key each run
// the producer; the last write wins. Producer errors are returned without
// caching anything.
func Remember(ctx context.Context, store Store, key string, ttl time.Duration, producer func() ([]byte, error)) ([]byte, error) {
	value, err := store.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	value, err = producer()
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, value, ttl); err != nil {
		return nil, err
	}
	return value, nil
}
