// Package vectormem implements the per-discussion persistent memory store:
// an append-only ground-truth table, an FTS5 full-text index kept in
// lockstep with it, and a hash ledger used to resume indexing across
// restarts without reprocessing.
//
// Storage faults are absorbed at the exported API boundary: operations log
// and return empty or no-op results rather than surfacing storage errors to
// callers. Callers treat "no results" as distinct from "retry".
package vectormem

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/reelworks/reels/pkg/discussion"
)

// driverName is the custom sqlite3 driver registration carrying the
// recency_boost scalar function.
const driverName = "sqlite3_vectormem"

var registerDriverOnce sync.Once

func registerDriver() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// Pure scalar function: same inputs always yield the same
			// output within a statement, safe to mark deterministic.
			return conn.RegisterFunc("recency_boost", recencyBoost, true)
		},
	})
}

// Config holds tuning knobs for the store.
type Config struct {
	// DecayRate is the per-day exponential decay applied to the recency
	// boost. Defaults to DefaultDecayRate if zero.
	DecayRate float64

	// MaxBoost is the ranking multiplier for a memory added right now.
	// Defaults to DefaultMaxBoost if zero.
	MaxBoost float64

	// MaxKeywords caps the number of keyword phrases per search query.
	// Defaults to DefaultMaxKeywords if zero.
	MaxKeywords int
}

const (
	DefaultDecayRate   = 0.01
	DefaultMaxBoost    = 2.5
	DefaultMaxKeywords = 30

	defaultSearchLimit     = 10
	defaultRecentHashLimit = 50
)

func (c Config) withDefaults() Config {
	if c.DecayRate == 0 {
		c.DecayRate = DefaultDecayRate
	}
	if c.MaxBoost == 0 {
		c.MaxBoost = DefaultMaxBoost
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = DefaultMaxKeywords
	}
	return c
}

// Store is the per-discussion memory store. It owns a single SQLite file
// whose path is resolved by the discussion layer.
type Store struct {
	db           *sql.DB
	discussionID string
	config       Config
	logger       *zap.Logger
}

// Open opens (or creates) the vector store for a discussion and runs
// idempotent schema creation. Safe to call on every startup.
func Open(dstore *discussion.Store, config Config, logger *zap.Logger) (*Store, error) {
	registerDriverOnce.Do(registerDriver)

	db, err := sql.Open(driverName, dstore.VectorDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	s := &Store{
		db:           db,
		discussionID: dstore.ID(),
		config:       config.withDefaults(),
		logger:       logger,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating vector store: %w", err)
	}

	return s, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		discussion_id TEXT NOT NULL,
		memory_text TEXT NOT NULL,
		date_added TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}'
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
		memory_text,
		title,
		summary,
		entities,
		key_phrases
	);

	CREATE TABLE IF NOT EXISTS hash_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		discussion_id TEXT NOT NULL,
		message_hash TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// MemoryCount returns the number of ground-truth memory rows,
// or 0 on a storage fault.
func (s *Store) MemoryCount(ctx context.Context) int {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE discussion_id = ?`, s.discussionID,
	).Scan(&n)
	if err != nil {
		s.logger.Warn("counting memories failed",
			zap.String("discussion_id", s.discussionID),
			zap.Error(err),
		)
		return 0
	}

	return n
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
