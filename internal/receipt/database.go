package receipt

import (
	"fmt"
	"sync"
)

// Store defines the interface for points storage
type Store interface {
	// Put stores points for an ID unless the ID is already present.
	// It reports whether the points were stored.
	Put(id string, points int) bool

	// Get retrieves the points for an ID
	Get(id string) (int, error)

	// Len returns the number of stored receipts
	Len() int
}

// MemoryStore implements the Store interface with a map guarded by a mutex.
// Entries live for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string]int
}

// NewMemoryStore creates a new MemoryStore instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		points: make(map[string]int),
	}
}

// Put stores points for an ID if it is absent. The check and the insert
// happen under one lock.
func (m *MemoryStore) Put(id string, points int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.points[id]; ok {
		return false
	}
	m.points[id] = points
	return true
}

// Get retrieves the points for an ID
func (m *MemoryStore) Get(id string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	points, ok := m.points[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return points, nil
}

// Len returns the number of stored receipts
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}
