// Package store persists the annotation graph in SQLite: entities, dependency
// edges, external links, and the per-source fingerprint manifest used for
// incremental indexing.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection for annotation graph storage.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db or tx
	dbPath string
}

// cacheDir returns the default directory for graph databases.
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".cache", "knowgraph")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache: %w", err)
	}
	return dir, nil
}

// Open opens or creates the graph database for the given project name in the
// default cache directory.
func Open(project string) (*Store, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return OpenPath(filepath.Join(dir, project+".db"))
}

// OpenPath opens a graph database at the given path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory graph database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Every pooled connection to :memory: gets its own empty database, so
	// the pool must never grow past the connection holding the schema.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction.
// The callback receives a transaction-scoped Store; all store methods called
// on txStore use the transaction. The receiver's q field is never mutated, so
// concurrent readers (using s.q == s.db) are unaffected.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		language TEXT NOT NULL DEFAULT '',
		source_path TEXT NOT NULL,
		line INTEGER NOT NULL DEFAULT 0,
		signature TEXT NOT NULL DEFAULT '',
		business_goal TEXT NOT NULL DEFAULT '',
		funnel_stage TEXT NOT NULL DEFAULT '',
		revenue_impact TEXT NOT NULL DEFAULT '',
		origin TEXT NOT NULL DEFAULT 'file',
		properties TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entities_source ON entities(source_path);
	CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(type);
	CREATE INDEX IF NOT EXISTS idx_entities_owner ON entities(owner);
	CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);
	CREATE INDEX IF NOT EXISTS idx_entities_goal ON entities(business_goal);

	CREATE TABLE IF NOT EXISTS edges (
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		type TEXT NOT NULL,
		source_path TEXT NOT NULL,
		PRIMARY KEY (source_id, target_id, type)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
	CREATE INDEX IF NOT EXISTS idx_edges_source_path ON edges(source_path);

	CREATE TABLE IF NOT EXISTS links (
		entity_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		source_path TEXT NOT NULL,
		PRIMARY KEY (entity_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_links_source_path ON links(source_path);

	CREATE TABLE IF NOT EXISTS fingerprints (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		seen_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// marshalJSON serializes a value to JSON for a TEXT column.
func marshalJSON(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

func unmarshalTags(data string) []string {
	if data == "" || data == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil
	}
	return tags
}

func unmarshalProps(data string) map[string]any {
	if data == "" || data == "{}" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil
	}
	return m
}
