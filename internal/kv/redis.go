package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds the optimistic retries of Update.
const maxTxRetries = 10

// RedisStore keeps each record as a plain string value under prefix+key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, s.client, key)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Update watches keys, runs fn and applies its writes in a MULTI/EXEC
// block. When another client changes a watched key first, fn is run again
// on the new values.
func (s *RedisStore) Update(ctx context.Context, keys []string, fn func(*Txn) error) error {
	watched := make([]string, len(keys))
	for i, key := range keys {
		watched[i] = s.prefix + key
	}

	txf := func(tx *redis.Tx) error {
		t := newTxn(func(key string) ([]byte, error) { return s.get(ctx, tx, key) })
		if err := fn(t); err != nil {
			return err
		}
		if t.empty() {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return t.each(func(key string, value []byte) error {
				if value == nil {
					pipe.Del(ctx, s.prefix+key)
				} else {
					pipe.Set(ctx, s.prefix+key, value, 0)
				}
				return nil
			})
		})
		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, watched...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrConflict
}

func (s *RedisStore) get(ctx context.Context, g getter, key string) ([]byte, error) {
	data, err := g.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
