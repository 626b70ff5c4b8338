package store

import "sync"

// MemoryBackend keeps raw serialized values in memory. It behaves like the
// SQLite backend, including for corrupt data, and is used for tests and
// ephemeral sessions.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

// NewMemoryStore is a Store over a fresh MemoryBackend.
func NewMemoryStore() *Store {
	return New(NewMemoryBackend())
}

// Get returns the raw value stored under key.
func (m *MemoryBackend) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	return data, ok, nil
}

// Set stores the raw value under key.
func (m *MemoryBackend) Set(key, data string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}
