package kv

import (
	"context"
	"database/sql"
	"errors"
)

// SQLiteStore keeps records in the kv table created by the migrations package.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getRow(ctx, s.db, key)
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return setRow(ctx, s.db, key, value)
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return removeRow(ctx, s.db, key)
}

// Update runs fn inside a database transaction. A concurrent writer in
// another process makes the commit fail with a busy error instead of one
// of the two updates being lost.
func (s *SQLiteStore) Update(ctx context.Context, _ []string, fn func(*Txn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	t := newTxn(func(key string) ([]byte, error) { return getRow(ctx, tx, key) })
	if err := fn(t); err != nil {
		return err
	}
	err = t.each(func(key string, value []byte) error {
		if value == nil {
			return removeRow(ctx, tx, key)
		}
		return setRow(ctx, tx, key, value)
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

func getRow(ctx context.Context, q querier, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func setRow(ctx context.Context, q querier, key string, value []byte) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at)
		 VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	return err
}

func removeRow(ctx context.Context, q querier, key string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
