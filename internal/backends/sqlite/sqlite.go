// Package sqlite stores overlay blobs in a single SQLite table keyed by area.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	shelferrors "github.com/agentstation/shelf/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS overlays (
    key TEXT PRIMARY KEY,
    blob BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);`

// Backend implements overlay.Backend on SQLite.
type Backend struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Backend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, shelferrors.WrapResource("open", "sqlite", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, shelferrors.WrapResource("connect", "sqlite", path, err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, shelferrors.WrapResource("migrate", "sqlite", path, err)
		}
	}
	return &Backend{db: db, now: time.Now}, nil
}

// Get implements overlay.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := b.db.QueryRowContext(ctx, `SELECT blob FROM overlays WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shelferrors.NewNotFoundError("overlay", key)
	}
	if err != nil {
		return nil, shelferrors.WrapResource("get", "sqlite", key, err)
	}
	return blob, nil
}

// Put implements overlay.Backend.
func (b *Backend) Put(ctx context.Context, key string, blob []byte) error {
	_, err := b.db.ExecContext(ctx, `
INSERT INTO overlays (key, blob, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		key, blob, b.now().UnixMilli())
	if err != nil {
		return shelferrors.WrapResource("put", "sqlite", key, err)
	}
	return nil
}

// Keys lists the stored overlay keys in order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM overlays ORDER BY key`)
	if err != nil {
		return nil, shelferrors.WrapResource("list", "sqlite", "overlays", err)
	}
	defer rows.Close() //nolint:errcheck

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, shelferrors.WrapResource("list", "sqlite", "overlays", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
