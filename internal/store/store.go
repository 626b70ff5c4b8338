// Package store persists the user's custom books and read markers on a
// durable local key-value medium.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/lumina/internal/book"
	lerrors "github.com/lepinkainen/lumina/internal/errors"
)

const (
	// CustomBooksKey holds the serialized custom book list, most recent first.
	CustomBooksKey = "lumina_custom_books"
	// ReadBooksKey holds the serialized read-state IDs.
	ReadBooksKey = "lumina_read_books"
)

// validKeys is the whitelist of keys a Backend may be asked for.
var validKeys = map[string]bool{
	CustomBooksKey: true,
	ReadBooksKey:   true,
}

// PersistentStore loads and saves the two independent user collections.
// Loads never fail: a missing or unreadable value yields an empty collection.
type PersistentStore interface {
	LoadCustomBooks() []book.Book
	SaveCustomBooks(books []book.Book) error
	LoadReadIDs() book.ReadSet
	SaveReadIDs(ids book.ReadSet) error
}

// Backend is the raw key-value medium underneath a PersistentStore.
// Get reports found=false when the key has never been written.
type Backend interface {
	Get(key string) (data string, found bool, err error)
	Set(key, data string) error
}

// Store implements PersistentStore on top of any Backend using JSON text.
type Store struct {
	backend Backend
}

// New wraps a Backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// LoadCustomBooks returns the stored custom books, or an empty list on any failure.
func (s *Store) LoadCustomBooks() []book.Book {
	var books []book.Book
	if !s.load(CustomBooksKey, &books) {
		return []book.Book{}
	}
	return book.Clone(books)
}

// SaveCustomBooks overwrites the stored custom book list.
func (s *Store) SaveCustomBooks(books []book.Book) error {
	return s.save(CustomBooksKey, book.Clone(books))
}

// LoadReadIDs returns the stored read set, or an empty set on any failure.
func (s *Store) LoadReadIDs() book.ReadSet {
	var ids []string
	if !s.load(ReadBooksKey, &ids) {
		return book.NewReadSet()
	}
	return book.NewReadSet(ids...)
}

// SaveReadIDs overwrites the stored read set. IDs are written sorted.
func (s *Store) SaveReadIDs(ids book.ReadSet) error {
	return s.save(ReadBooksKey, ids.IDs())
}

func (s *Store) load(key string, target any) bool {
	data, found, err := s.backend.Get(key)
	if err != nil {
		slog.Warn("Failed to load stored value", "error", lerrors.NewStorageReadError(key, err))
		return false
	}
	if !found || data == "" {
		return false
	}
	if err := json.Unmarshal([]byte(data), target); err != nil {
		slog.Warn("Failed to parse stored value", "error", lerrors.NewStorageReadError(key, err))
		return false
	}
	return true
}

func (s *Store) save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.backend.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	slog.Debug("Stored value saved", "key", key, "bytes", len(data))
	return nil
}

// validateKey checks the key against the whitelist so table access stays bounded.
func validateKey(key string) error {
	if !validKeys[key] {
		return fmt.Errorf("invalid store key: %s", key)
	}
	return nil
}
