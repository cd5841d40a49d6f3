package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteKV stores entries as rows of a single table
type sqliteKV struct {
	db       *sql.DB
	sb       *sqlBuilder
	timeFunc func() time.Time
}

// NewSQLiteKV opens or creates a SQLite database at path. ":memory:" gives a
// private in-memory database.
func NewSQLiteKV(path string) (KV, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &sqliteKV{db: db, sb: newSQLBuilder(), timeFunc: time.Now}, nil
}

func (s *sqliteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := s.sb.buildGet(key)
	if err != nil {
		return nil, false, err
	}
	var value []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.wrap("get", err)
	}
	return value, true, nil
}

func (s *sqliteKV) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	query, args, err := s.sb.buildUpsert(key, value, s.timeFunc())
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.wrap("put", err)
	}
	return nil
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args, err := s.sb.buildDelete(key)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

func (s *sqliteKV) Keys(ctx context.Context) ([]string, error) {
	query, args, err := s.sb.buildKeys()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap("keys", err)
	}
	defer func() { _ = rows.Close() }()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, s.wrap("keys", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *sqliteKV) Close() error {
	return s.db.Close()
}

func (s *sqliteKV) wrap(op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return fmt.Errorf("sqlite %s: %w", op, ErrClosed)
	}
	return fmt.Errorf("sqlite %s: %w", op, err)
}
