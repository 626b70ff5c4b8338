package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// KVSchema is the single table backing the store. Each collection is one row.
const KVSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	store_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteBackend is a Backend stored in a local SQLite file.
type SQLiteBackend struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// NewSQLiteBackend opens (or creates) the database at dbPath and ensures the schema exists.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	// A single connection keeps in-memory databases consistent across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to store database: %w", err), closeErr)
	}

	if _, err := db.Exec(KVSchema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create store table: %w", err), closeErr)
	}

	return &SQLiteBackend{
		db:   db,
		path: dbPath,
	}, nil
}

// OpenSQLite opens a Store backed by the SQLite file at dbPath.
func OpenSQLite(dbPath string) (*Store, *SQLiteBackend, error) {
	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return New(backend), backend, nil
}

// Path returns the database file path.
func (s *SQLiteBackend) Path() string {
	return s.path
}

// Get returns the raw value stored under key.
func (s *SQLiteBackend) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRow(`SELECT data FROM kv_store WHERE store_key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query store: %w", err)
	}
	return data, true, nil
}

// Set overwrites the raw value stored under key.
func (s *SQLiteBackend) Set(key, data string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO kv_store (store_key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, data)
	if err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
