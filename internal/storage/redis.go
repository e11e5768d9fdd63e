package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/service"
)

// RedisStore keeps each document under prefix+key with no expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ service.Store = (*RedisStore)(nil)

// NewRedisStore connects to addr and pings it, retrying briefly while the
// server comes up.
func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(addr, "addr"); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ping := func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(common.ErrStoreUnavailable, err)
		}
		return nil
	}
	if err := common.WithRetry(ctx, ping, common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) name(key string) string {
	return s.prefix + key
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get returns the stored document or common.ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateGet(ctx, key); err != nil {
		return nil, err
	}
	value, err := s.client.Get(ctx, s.name(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("document %s: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores a document, replacing any previous value.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateSet(ctx, key, value); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.name(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes a document.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := validateGet(ctx, key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.name(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists which known documents are present, in service.Keys order.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	known := service.Keys()
	names := make([]string, len(known))
	for i, k := range known {
		names[i] = s.name(k)
	}
	values, err := s.client.MGet(ctx, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	keys := []string{}
	for i, v := range values {
		if v != nil {
			keys = append(keys, known[i])
		}
	}
	return keys, nil
}
