package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/kategorie/internal/game"
)

// SQLite is a Store backed by the kv table (see assets/migrations).
type SQLite struct{ db *sql.DB }

// NewSQLite wraps an already migrated database.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Get loads and decodes the value at key.
func (s *SQLite) Get(ctx context.Context, key string) (*game.Record, int64, error) {
	var (
		value   string
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM kv WHERE key=?`, key,
	).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	rec, err := decode([]byte(value))
	if err != nil {
		return nil, 0, err
	}
	return rec, version, nil
}

// Set inserts (expect == 0) or conditionally updates the value at key.
// The version check happens in the same statement as the write.
func (s *SQLite) Set(ctx context.Context, key string, rec *game.Record, expect int64) error {
	b, err := encode(rec)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	var res sql.Result
	if expect == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO kv (key, value, version, created_at, updated_at)
			VALUES (?, ?, 1, ?, ?)`, key, string(b), now, now)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE kv SET value=?, version=version+1, updated_at=?
			WHERE key=? AND version=?`, string(b), now, key, expect)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
