package storefront

import (
	"errors"
	"sync"
	"time"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
)

// ErrNoSession is returned by Do when called without a session id.
var ErrNoSession = errors.New("session id is required")

// SessionObserver receives the events of every session in a Store.
type SessionObserver func(sessionID string, e Event)

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithStoreClock overrides the clock used for idle tracking.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionObserver attaches o to every state the store creates.
func WithSessionObserver(o SessionObserver) StoreOption {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithCartOptions forwards options to each new cart.
func WithCartOptions(opts ...cart.Option) StoreOption {
	return func(s *Store) {
		s.cartOpts = append(s.cartOpts, opts...)
	}
}

// Store keeps one State per session in memory. Commands for the same
// session are serialised; different sessions proceed independently.
type Store struct {
	catalog   *catalog.Catalog
	now       func() time.Time
	observers []SessionObserver
	cartOpts  []cart.Option

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	state    *State
	lastSeen time.Time
}

// NewStore returns an empty store bound to c.
func NewStore(c *catalog.Catalog, opts ...StoreOption) *Store {
	s := &Store{
		catalog:  c,
		now:      time.Now,
		sessions: map[string]*session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do runs fn against the state of session id, creating it on first use.
// fn must not retain the state after it returns.
func (s *Store) Do(id string, fn func(*State) error) error {
	if id == "" {
		return ErrNoSession
	}
	sess := s.lookup(id)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.state)
}

// Snapshot returns the current snapshot of session id.
func (s *Store) Snapshot(id string) (Snapshot, error) {
	var snap Snapshot
	err := s.Do(id, func(st *State) error {
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}

func (s *Store) lookup(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess
	}
	st := NewState(s.catalog, s.cartOpts...)
	for _, o := range s.observers {
		o := o
		st.OnChange(func(e Event) { o(id, e) })
	}
	sess := &session{state: st, lastSeen: now}
	s.sessions[id] = sess
	return sess
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and reports how many
// were removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
