// internal/store/memory.go
//
// In-memory implementation of the session Store.
//
// Characteristics:
//   - Sessions are keyed by Session.ID in a map guarded by an RWMutex.
//   - Update serialises mutations of one session with a per-session mutex,
//     so concurrent guesses on the same game are applied one at a time.
//   - Each entry remembers when it was last saved or updated; Prune drops
//     entries idle since before a cutoff.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Update runs fn with exclusive access to the session id.
	// Returns ErrNotFound for unknown ids and otherwise fn's error.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete forgets a session; unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Prune deletes sessions not touched since cutoff and returns how many went.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type entry struct {
	mu      sync.Mutex
	s       *game.Session
	touched time.Time
}

type memory struct {
	mu       sync.RWMutex // guards sessions
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store on the wall clock.
func NewMemoryStore() Store {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock is NewMemoryStore with an injectable clock.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memory{sessions: make(map[string]*entry), now: now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{s: s, touched: m.now()}
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = m.now()
	return fn(e.s)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	var stale []string
	m.mu.RLock()
	for id, e := range m.sessions {
		e.mu.Lock()
		if e.touched.Before(cutoff) {
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := m.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
