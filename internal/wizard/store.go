package wizard

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("wizard session not found")

// Store keeps live wizard sessions in memory. Sessions are never
// persisted: they exist between modal-open and modal-close, and the
// janitor sweeps whatever the user abandoned.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	st := &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
	}
	go st.janitor()
	return st
}

func (st *Store) Create(kind Kind) (*State, error) {
	state, err := NewState(kind)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	st.sessions[state.ID] = state
	st.mu.Unlock()
	return state, nil
}

func (st *Store) Get(id string) (*State, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	state, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// Discard drops the session. An in-flight submission keeps running,
// but its response is thrown away when it lands.
func (st *Store) Discard(id string) error {
	st.mu.Lock()
	state, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	state.markDiscarded()
	return nil
}

// Len reports live sessions, used by the health endpoint.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		st.Sweep(time.Now())
	}
}

// Sweep removes sessions idle past the TTL and terminal ones.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, state := range st.sessions {
		snap := state.Snapshot()
		if snap.Status == StatusSucceeded || now.Sub(snap.UpdatedAt) > st.ttl {
			state.markDiscarded()
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
