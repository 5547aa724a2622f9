// Package redis provides Redis-backed adapters for lexdesk.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces client hashes.
const DefaultKeyPrefix = "lexdesk:client:"

// ClientStore keeps each client's state in one Redis hash.
// Writes refresh the hash TTL so idle clients age out.
type ClientStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// ClientStoreOptions configures a ClientStore.
type ClientStoreOptions struct {
	Prefix string
	// TTL is applied on every write. Zero disables expiry.
	TTL time.Duration
}

// NewClientStore creates a Redis-backed client store.
func NewClientStore(client redis.UniversalClient, opts ClientStoreOptions) *ClientStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ClientStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *ClientStore) key(clientID string) string {
	return s.prefix + clientID
}

// Get reads the requested fields with HMGET. Absent fields are omitted.
func (s *ClientStore) Get(ctx context.Context, clientID string, keys ...string) (map[string]string, error) {
	if clientID == "" {
		return nil, errors.New("client id cannot be empty")
	}
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := s.client.HMGet(ctx, s.key(clientID), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget: %w", err)
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

// Set writes all fields and refreshes the TTL in one MULTI/EXEC.
func (s *ClientStore) Set(ctx context.Context, clientID string, values map[string]string) error {
	if clientID == "" {
		return errors.New("client id cannot be empty")
	}
	if len(values) == 0 {
		return nil
	}

	key := s.key(clientID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Delete removes the fields with a single HDEL. Redis drops the hash once it is empty.
func (s *ClientStore) Delete(ctx context.Context, clientID string, keys ...string) error {
	if clientID == "" || len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key(clientID), keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}
