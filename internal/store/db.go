package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database holding patterns, evidence, and the
// extraction log. It is safe for use from concurrent short-lived
// processes: write transactions take the database lock up front
// (_txlock=immediate) and lock waits are bounded by the busy timeout.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the pattern database under statePath. busyTimeout
// bounds how long SQLite waits on a locked database before the operation
// surfaces ErrPersistence.
func Open(statePath string, busyTimeout time.Duration) (*Store, error) {
	dbPath := filepath.Join(statePath, "patterns.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create state directory: %v", ErrPersistence, err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_txlock=immediate",
		dbPath, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrPersistence, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrPersistence, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", ErrPersistence, err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", ErrPersistence, err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the on-disk location of the database file.
func (s *Store) Path() string {
	return s.path
}

// migrate runs database migrations
func (s *Store) migrate() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Inferred behavioral patterns
	CREATE TABLE IF NOT EXISTS user_patterns (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		session_refs TEXT NOT NULL DEFAULT '[]',
		confidence TEXT NOT NULL DEFAULT 'low',
		weight REAL NOT NULL DEFAULT 0.5,
		session_count INTEGER NOT NULL DEFAULT 0,
		project_count INTEGER NOT NULL DEFAULT 0,
		instruction TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		first_seen DATETIME NOT NULL,
		last_reinforced DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_user_patterns_status ON user_patterns(status);
	CREATE INDEX IF NOT EXISTS idx_user_patterns_category ON user_patterns(category);

	-- Append-only evidence rows. No ON DELETE CASCADE: evidence outlives
	-- retirement of the parent pattern.
	CREATE TABLE IF NOT EXISTS pattern_evidence (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pattern_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		project TEXT NOT NULL DEFAULT '',
		snippet TEXT NOT NULL DEFAULT '',
		recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (pattern_id) REFERENCES user_patterns(id)
	);

	CREATE INDEX IF NOT EXISTS idx_pattern_evidence_pattern ON pattern_evidence(pattern_id);

	-- Audit trail of extraction runs
	CREATE TABLE IF NOT EXISTS pattern_extraction_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		extracted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		session_count INTEGER NOT NULL DEFAULT 0,
		patterns_created INTEGER NOT NULL DEFAULT 0,
		patterns_updated INTEGER NOT NULL DEFAULT 0,
		patterns_retired INTEGER NOT NULL DEFAULT 0,
		model TEXT NOT NULL DEFAULT ''
	);

	-- Record schema version
	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	return s.runMigrations()
}

// runMigrations applies incremental schema changes
func (s *Store) runMigrations() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		version = 1 // Assume v1 if can't read
	}

	// Migration v2: index for the dormancy sweep and injection ordering
	if version < 2 {
		s.db.Exec("CREATE INDEX IF NOT EXISTS idx_user_patterns_last_reinforced ON user_patterns(last_reinforced)")
		s.db.Exec("INSERT INTO schema_version (version) VALUES (2)")
	}

	return nil
}

// ReadOnlyQuery runs a parameterized SELECT for counts/stats tooling.
// Anything other than a SELECT is rejected before touching the database.
func (s *Store) ReadOnlyQuery(query string, args ...any) (*sql.Rows, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	if !strings.HasPrefix(trimmed, "SELECT") {
		return nil, fmt.Errorf("%w: ReadOnlyQuery accepts SELECT statements only", ErrPersistence)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}

// TestSetLastReinforced rewinds a pattern's reinforcement timestamp (for testing only)
func (s *Store) TestSetLastReinforced(id string, t time.Time) error {
	_, err := s.db.Exec(`UPDATE user_patterns SET last_reinforced = ? WHERE id = ?`, t.UTC(), id)
	return err
}
