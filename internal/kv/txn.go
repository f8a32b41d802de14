package kv

import (
	"encoding/json"
	"fmt"
)

// Txn is the view an Update callback works on. Reads go to the store and
// see the callback's own writes; writes are buffered until fn returns.
type Txn struct {
	get    func(key string) ([]byte, error)
	writes map[string][]byte // nil removes
	order  []string
}

func newTxn(get func(key string) ([]byte, error)) *Txn {
	return &Txn{get: get, writes: make(map[string][]byte)}
}

func (t *Txn) Get(key string) ([]byte, error) {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, ErrNotFound
		}
		return append([]byte{}, v...), nil
	}
	return t.get(key)
}

func (t *Txn) Set(key string, value []byte) {
	t.write(key, append([]byte{}, value...))
}

func (t *Txn) Remove(key string) {
	t.write(key, nil)
}

// GetJSON is the Txn counterpart of the package-level GetJSON.
func (t *Txn) GetJSON(key string, dest any) error {
	data, err := t.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (t *Txn) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	t.write(key, data)
	return nil
}

func (t *Txn) write(key string, value []byte) {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = value
}

// each calls fn for every buffered write in the order keys were first
// written. A nil value means remove.
func (t *Txn) each(fn func(key string, value []byte) error) error {
	for _, key := range t.order {
		if err := fn(key, t.writes[key]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Txn) empty() bool { return len(t.order) == 0 }
