package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces document keys.
const DefaultRedisPrefix = "algoviz:doc:"

// RedisStore keeps documents as string values in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the connection with PING,
// retrying a few times while the server comes up.
func NewRedisStore(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	err := retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStoreFromClient(client, DefaultRedisPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get reads a document.
func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := decodeEntry(raw)
	if err != nil {
		return nil, err
	}
	return e.Data, nil
}

// Put writes a document without expiry.
func (s *RedisStore) Put(ctx context.Context, id string, data []byte) error {
	if err := validID(id); err != nil {
		return err
	}
	raw, err := encodeEntry(id, data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+id, raw, 0).Err()
}

// Delete removes a document.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// List scans the key prefix.
func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	var out []Info
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		e, err := decodeEntry(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e.info())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sortInfos(out)
	return out, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
