package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a small namespaced JSON cache over Redis. A nil *Store is a
// functioning no-op so callers never have to branch on whether caching is
// configured.
type Store struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewStore wraps a Redis client with a key namespace and default TTL.
func NewStore(client *redis.Client, namespace string, ttl time.Duration) *Store {
	if client == nil {
		return nil
	}
	return &Store{client: client, namespace: namespace, ttl: ttl}
}

func (s *Store) key(k string) string {
	return s.namespace + ":" + k
}

// Get unmarshals the cached value for key into dest. The second return is
// false on miss or decode failure.
func (s *Store) Get(ctx context.Context, k string, dest interface{}) (bool, error) {
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(k)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (s *Store) Set(ctx context.Context, k string, value interface{}) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(k), raw, s.ttl).Err()
}

// InvalidateAll drops every key in the namespace. Used after ingest commits.
func (s *Store) InvalidateAll(ctx context.Context) error {
	if s == nil {
		return nil
	}
	iter := s.client.Scan(ctx, 0, s.namespace+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
