package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/riskriver/internal/database"
)

// SnapshotCache persists the latest computed snapshot in the cache database,
// keyed by the input hash. It holds exactly one entry: a new input hash
// replaces whatever was stored before, which is the explicit invalidation
// point for the whole pipeline. Cache failures degrade to a recompute and
// are never surfaced as errors.
type SnapshotCache struct {
	db  *database.DB
	ttl time.Duration // Zero disables expiry
	log zerolog.Logger
}

// NewSnapshotCache creates the cache table if needed
func NewSnapshotCache(db *database.DB, ttl time.Duration, log zerolog.Logger) (*SnapshotCache, error) {
	c := &SnapshotCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "snapshot_cache").Logger(),
	}

	_, err := db.Conn().Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			input_hash TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			created_at INTEGER NOT NULL
		)`)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Get returns the cached snapshot for the input hash, if present and fresh
func (c *SnapshotCache) Get(inputHash string) (*Snapshot, bool) {
	var payload []byte
	var createdAt int64

	row := c.db.Conn().QueryRow(
		`SELECT payload, created_at FROM snapshots WHERE input_hash = ?`, inputHash)
	if err := row.Scan(&payload, &createdAt); err != nil {
		return nil, false
	}

	if c.ttl > 0 && time.Since(time.Unix(createdAt, 0)) > c.ttl {
		c.log.Debug().Str("input_hash", inputHash).Msg("Cached snapshot expired")
		return nil, false
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		c.log.Warn().Err(err).Msg("Failed to decode cached snapshot, recomputing")
		return nil, false
	}

	return &snap, true
}

// Put stores the snapshot, replacing any previous entry. The single-row
// policy means stale inputs never linger.
func (c *SnapshotCache) Put(snap *Snapshot) {
	payload, err := msgpack.Marshal(snap)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode snapshot for cache")
		return
	}

	tx, err := c.db.Conn().Begin()
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to open cache transaction")
		return
	}

	if _, err := tx.Exec(`DELETE FROM snapshots`); err != nil {
		_ = tx.Rollback()
		c.log.Warn().Err(err).Msg("Failed to clear snapshot cache")
		return
	}
	if _, err := tx.Exec(
		`INSERT INTO snapshots (input_hash, payload, created_at) VALUES (?, ?, ?)`,
		snap.InputHash, payload, time.Now().Unix(),
	); err != nil {
		_ = tx.Rollback()
		c.log.Warn().Err(err).Msg("Failed to store snapshot in cache")
		return
	}

	if err := tx.Commit(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to commit snapshot cache")
		return
	}

	c.log.Debug().
		Str("input_hash", snap.InputHash).
		Int("bytes", len(payload)).
		Msg("Snapshot cached")
}
