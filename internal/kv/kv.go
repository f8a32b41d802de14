// Package kv is the storage port used by the progression components: a flat
// key to blob store. Records are JSON documents.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by Update when another writer kept changing
	// the watched records.
	ErrConflict = errors.New("concurrent update")
)

type Store interface {
	// Get returns ErrNotFound when key has no record.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
	// Update runs fn against the current values of keys and applies the
	// writes fn makes to the Txn in one atomic step. Nothing is written when
	// fn returns an error. fn may be called more than once.
	Update(ctx context.Context, keys []string, fn func(*Txn) error) error
}

// GetJSON loads key into dest. A missing record yields ErrNotFound; a record
// that does not decode yields a wrapped decode error.
func GetJSON(ctx context.Context, s Store, key string, dest any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
