// Package persistence provides SQLite-backed snapshot storage. The
// simulation core performs no I/O itself; the host serializes the tree here
// on a cadence and restores it through the validation boundary on startup.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/talgya/macroverse/internal/sim"
)

// keepSnapshots bounds how many snapshot rows survive pruning.
const keepSnapshots = 24

// DB wraps a SQLite connection plus the shared zstd coders.
type DB struct {
	conn *sqlx.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open opens or creates a snapshot database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}

	db := &DB{conn: conn, enc: enc, dec: dec}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	db.enc.Close()
	db.dec.Close()
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		payload BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_tick ON snapshots(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshot serializes snap, compresses it, and stores it under a fresh
// row, pruning old rows past the retention bound.
func (db *DB) SaveSnapshot(tick uint64, snap *sim.Snapshot) (string, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	payload := db.enc.EncodeAll(raw, nil)

	id := uuid.NewString()
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO snapshots (id, tick, created_at, payload) VALUES (?, ?, ?, ?)`,
		id, tick, time.Now().UTC().Format(time.RFC3339), payload,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	_, err = tx.Exec(
		`DELETE FROM snapshots WHERE id NOT IN
		 (SELECT id FROM snapshots ORDER BY tick DESC LIMIT ?)`,
		keepSnapshots,
	)
	if err != nil {
		return "", fmt.Errorf("prune snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Debug("snapshot saved",
		"id", id, "tick", tick,
		"raw_bytes", len(raw), "stored_bytes", len(payload),
	)
	return id, nil
}

// HasSnapshot reports whether any snapshot exists.
func (db *DB) HasSnapshot() bool {
	var count int
	if err := db.conn.Get(&count, `SELECT COUNT(*) FROM snapshots`); err != nil {
		return false
	}
	return count > 0
}

// LoadLatest returns the raw JSON document and tick of the newest snapshot.
// The caller passes the document to sim.LoadSnapshot, which validates it.
func (db *DB) LoadLatest() ([]byte, uint64, error) {
	var row struct {
		Tick    uint64 `db:"tick"`
		Payload []byte `db:"payload"`
	}
	err := db.conn.Get(&row, `SELECT tick, payload FROM snapshots ORDER BY tick DESC LIMIT 1`)
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}

	raw, err := db.dec.DecodeAll(row.Payload, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("decompress snapshot: %w", err)
	}
	return raw, row.Tick, nil
}

// GetMeta returns a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	if err := db.conn.Get(&value, `SELECT value FROM meta WHERE key = ?`, key); err != nil {
		return "", err
	}
	return value, nil
}

// SetMeta upserts a metadata value.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
