// Package sqlitecache implements store.LocalCache on an embedded SQLite
// database. The whole hazard list is serialized as JSON into a single named
// slot, so the cache survives restarts without needing schema knowledge of
// the records it holds.
package sqlitecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
)

const hazardSlot = "hazards"

const schema = `
CREATE TABLE IF NOT EXISTS cache_slots (
	slot       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Cache stores serialized hazard lists in a local SQLite file.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path. The parent directory is
// created if needed; ":memory:" opens an in-process database for tests.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create cache directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Load reads the cached hazard list. A missing slot is an empty list, not an
// error.
func (c *Cache) Load(ctx context.Context) ([]domain.HazardRecord, error) {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM cache_slots WHERE slot = ?`, hazardSlot,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache slot: %w", err)
	}

	var recs []domain.HazardRecord
	if err := json.Unmarshal([]byte(payload), &recs); err != nil {
		return nil, fmt.Errorf("decode cached hazards: %w", err)
	}
	return recs, nil
}

// Save replaces the cached hazard list wholesale.
func (c *Cache) Save(ctx context.Context, recs []domain.HazardRecord) error {
	if recs == nil {
		recs = []domain.HazardRecord{}
	}
	payload, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode hazards: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO cache_slots (slot, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		hazardSlot, string(payload), domain.NowMillis())
	if err != nil {
		return fmt.Errorf("write cache slot: %w", err)
	}
	return nil
}

// Clear removes the cached hazard list.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_slots WHERE slot = ?`, hazardSlot); err != nil {
		return fmt.Errorf("clear cache slot: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
