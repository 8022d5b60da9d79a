package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/sowilo/internal/apperr"
)

// Store keeps the current State of every live session in memory. When the
// configured maximum is reached the oldest session is evicted.
type Store struct {
	mu       sync.Mutex
	states   map[string]State
	order    []string
	max      int
	greeting string
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store holding at most max sessions (unbounded when max <= 0).
func NewStore(max int, greeting string, opts ...StoreOption) *Store {
	s := &Store{
		states:   make(map[string]State),
		max:      max,
		greeting: greeting,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// Create starts a new session with a random ID.
func (s *Store) Create() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 {
		for len(s.order) >= s.max {
			delete(s.states, s.order[0])
			s.order = s.order[1:]
		}
	}

	st := New(uuid.NewString(), s.greeting, s.now())
	s.states[st.ID] = st
	s.order = append(s.order, st.ID)
	return st.Clone()
}

// Get returns the session's current state.
func (s *Store) Get(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	if !ok {
		return State{}, fmt.Errorf("session %q: %w", id, apperr.ErrNotFound)
	}
	return st.Clone(), nil
}

// Update applies fn to the session's state atomically and stores the result.
// If fn returns an error the state is left unchanged.
func (s *Store) Update(id string, fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	if !ok {
		return State{}, fmt.Errorf("session %q: %w", id, apperr.ErrNotFound)
	}
	next, err := fn(st.Clone())
	if err != nil {
		return State{}, err
	}
	next.ID = id
	s.states[id] = next
	return next.Clone(), nil
}

// Reset replaces the session with a fresh state under the same ID and the
// next epoch.
func (s *Store) Reset(id string) (State, error) {
	return s.Update(id, func(cur State) (State, error) {
		return cur.WithReset(s.greeting, s.now()), nil
	})
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
