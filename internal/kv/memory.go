package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Values are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Update holds the write lock for the whole of fn, so keys is not needed.
func (m *Memory) Update(_ context.Context, _ []string, fn func(*Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := newTxn(func(key string) ([]byte, error) {
		v, ok := m.data[key]
		if !ok {
			return nil, ErrNotFound
		}
		return append([]byte(nil), v...), nil
	})
	if err := fn(t); err != nil {
		return err
	}
	return t.each(func(key string, value []byte) error {
		if value == nil {
			delete(m.data, key)
		} else {
			m.data[key] = value
		}
		return nil
	})
}
