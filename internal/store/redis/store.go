package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// scanCount is the COUNT hint given to each SCAN round trip.
	scanCount = 500
	// deleteBatch bounds the number of keys passed to a single DEL.
	deleteBatch = 500
)

// Store is the content cache backed by Redis. Every key it receives or
// returns is relative to its prefix.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore creates a new Redis store. An empty prefix falls back to DefaultKeyPrefix.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Get returns (nil, false, nil) on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, NamespacedKey(s.prefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores value with SET EX.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, NamespacedKey(s.prefix, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Keys walks SCAN MATCH {prefix}{pattern} and returns the matching logical keys.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, NamespacedKey(s.prefix, pattern), scanCount).Iterator()
	for iter.Next(ctx) {
		key, err := ExtractKey(s.prefix, iter.Val())
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
	}
	return keys, nil
}

// Delete removes the given logical keys in batches and returns how many existed.
func (s *Store) Delete(ctx context.Context, keys ...string) (int64, error) {
	var total int64
	for start := 0; start < len(keys); start += deleteBatch {
		end := min(start+deleteBatch, len(keys))
		batch := make([]string, 0, end-start)
		for _, k := range keys[start:end] {
			batch = append(batch, NamespacedKey(s.prefix, k))
		}
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return total, fmt.Errorf("failed to delete keys: %w", err)
		}
		total += n
	}
	return total, nil
}

// Info returns the raw INFO payload.
func (s *Store) Info(ctx context.Context) (string, error) {
	info, err := s.client.Info(ctx).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read info: %w", err)
	}
	return info, nil
}

// Ping is used by /readyz and /infra.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
