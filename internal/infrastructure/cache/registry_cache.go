// Package cache keeps registry lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"backoffice/internal/domain/company"
	"backoffice/pkg/logger"
)

const registryKeyPrefix = "backoffice:registry:"

// Store is the byte-level key/value surface the cache needs.
type Store interface {
	// Get reports ok=false on a miss
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore implements Store on a Redis client.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RegistryCache decorates a company.Registry with a read-through cache.
// Profiles are stored as zstd-compressed JSON; failed lookups are never cached.
// A broken cache degrades to direct lookups.
type RegistryCache struct {
	next    company.Registry
	store   Store
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ company.Registry = (*RegistryCache)(nil)

// NewRegistryCache creates the decorator.
func NewRegistryCache(next company.Registry, store Store, ttl time.Duration) (*RegistryCache, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &RegistryCache{
		next:    next,
		store:   store,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Lookup returns the cached profile or asks the wrapped registry.
func (c *RegistryCache) Lookup(ctx context.Context, document string) (*company.Profile, error) {
	key := registryKeyPrefix + document

	if profile, err := c.get(ctx, key); err != nil {
		logger.Warn(ctx, "registry cache read failed", "key", key, "error", err)
	} else if profile != nil {
		logger.Debug(ctx, "registry cache hit", "document", document)
		return profile, nil
	}

	profile, err := c.next.Lookup(ctx, document)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, key, profile); err != nil {
		logger.Warn(ctx, "registry cache write failed", "key", key, "error", err)
	}
	return profile, nil
}

func (c *RegistryCache) get(ctx context.Context, key string) (*company.Profile, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	plain, err := c.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	var profile company.Profile
	if err := json.Unmarshal(plain, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (c *RegistryCache) set(ctx context.Context, key string, profile *company.Profile) error {
	plain, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.store.Set(ctx, key, c.encoder.EncodeAll(plain, nil), c.ttl)
}
