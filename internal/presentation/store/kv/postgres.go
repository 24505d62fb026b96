package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	upsertEntrySQL = `INSERT INTO kv_entries (key, value, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	selectEntrySQL = `SELECT value FROM kv_entries WHERE key = $1 AND expires_at > $2`

	deleteExpiredSQL = `DELETE FROM kv_entries WHERE expires_at <= $1`
)

// Postgres stores entries in the kv_entries table. Expiry is enforced on read
// and rows are reclaimed by DeleteExpired.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres constructs a PostgreSQL-backed backend.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

func (p *Postgres) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if _, err := p.db.ExecContext(ctx, upsertEntrySQL, key, value, p.now().Add(ttl)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, selectEntrySQL, key, p.now()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// DeleteExpired removes all rows that expired as of now.
func (p *Postgres) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := p.db.ExecContext(ctx, deleteExpiredSQL, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired entries: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired entries rows: %w", err)
	}
	return int(rows), nil
}
