package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/causeway-org/causeway/internal/config"
	applog "github.com/causeway-org/causeway/internal/logger"
)

// memcache caps keys at 250 bytes; longer ones are hashed.
const maxMemcachedKeyLen = 250

// MemcachedStore backs the cache with a Memcached server.
type MemcachedStore struct {
	client     *memcache.Client
	defaultTTL time.Duration
	log        *applog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemcachedStore(cfg config.Cache, log *applog.Logger) (*MemcachedStore, error) {
	client := memcache.New(fmt.Sprintf("%s:%d", cfg.MemcachedHost, cfg.MemcachedPort))
	client.Timeout = cfg.Timeout
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to memcached: %w", err)
	}

	log.Info("memcached cache connected to {addr}", map[string]any{
		"addr": fmt.Sprintf("%s:%d", cfg.MemcachedHost, cfg.MemcachedPort),
	})
	return &MemcachedStore{client: client, defaultTTL: cfg.DefaultTTL, log: log}, nil
}

func normalizeKey(key string) string {
	if len(key) <= maxMemcachedKeyLen {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (s *MemcachedStore) expiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return int32(ttl / time.Second)
}

func (s *MemcachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, err := s.client.Get(normalizeKey(key))
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			s.misses.Add(1)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("memcached get: %w", err)
	}
	s.hits.Add(1)
	return item.Value, nil
}

func (s *MemcachedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.client.Set(&memcache.Item{
		Key:        normalizeKey(key),
		Value:      value,
		Expiration: s.expiration(ttl),
	})
	if err != nil {
		return fmt.Errorf("memcached set: %w", err)
	}
	return nil
}

func (s *MemcachedStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.client.Delete(normalizeKey(key))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("memcached delete: %w", err)
	}
	return nil
}

func (s *MemcachedStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.FlushAll(); err != nil {
		return fmt.Errorf("memcached flush: %w", err)
	}
	return nil
}

func (s *MemcachedStore) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *MemcachedStore) GetMultiple(ctx context.Context, keys []string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	normalized := make([]string, len(keys))
	original := make(map[string]string, len(keys))
	for i, key := range keys {
		normalized[i] = normalizeKey(key)
		original[normalized[i]] = key
	}

	items, err := s.client.GetMulti(normalized)
	if err != nil {
		return nil, fmt.Errorf("memcached get multi: %w", err)
	}

	out := make(map[string][]byte, len(items))
	for nk, item := range items {
		s.hits.Add(1)
		out[original[nk]] = item.Value
	}
	s.misses.Add(int64(len(keys) - len(items)))
	return out, nil
}

func (s *MemcachedStore) SetMultiple(ctx context.Context, values map[string][]byte, ttl time.Duration) error {
	for key, value := range values {
		if err := s.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemcachedStore) DeleteMultiple(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemcachedStore) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

func (s *MemcachedStore) Close() error { return nil }
