// internal/store/memory.go
//
// Persistence for live matches.
//
// Characteristics:
//   - Store is the interface the HTTP layer depends on.
//   - memory keeps *match.Match values keyed by ID behind an RWMutex; state is
//     lost when the process restarts.
//   - sqlStore (sqlite.go) writes match snapshots as JSON and resumes them
//     through the engine's restore operations.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/match"
)

// ErrNotFound is returned by Get for an unknown match ID.
var ErrNotFound = errors.New("store: match not found")

// Store defines the persistence interface for matches.
type Store interface {
	// Save persists or updates a match.
	Save(ctx context.Context, m *match.Match) error

	// Get retrieves a match by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*match.Match, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex            // guards matches
	matches map[string]*match.Match // keyed by Match.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{matches: make(map[string]*match.Match)}
}

// Save adds or updates the match in the map.
func (m *memory) Save(ctx context.Context, mt *match.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[mt.ID] = mt
	return nil
}

// Get looks up a match by ID.
func (m *memory) Get(ctx context.Context, id string) (*match.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mt, ok := m.matches[id]; ok {
		return mt, nil
	}
	return nil, ErrNotFound
}
