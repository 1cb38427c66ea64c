package session

import (
	"errors"
	"sync"
	"time"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
)

var (
	// ErrConflict marks a click that arrived while an earlier click on
	// the same session was still being handled.
	ErrConflict = errors.New("session: another click is still being handled")
	// ErrNotFound marks events for a session the store does not know,
	// usually a click on a stale flow message.
	ErrNotFound = errors.New("session: not found")
	// ErrActiveElsewhere marks an attempt to start a second flow while
	// the user still has one open on another message.
	ErrActiveElsewhere = errors.New("session: user already has an open selection")
)

// Store owns all live sessions. Each session is keyed by its flow
// message and user; a user holds at most one open session at a time.
type Store struct {
	mu     sync.Mutex
	cat    *catalog.Catalog
	idle   time.Duration
	byKey  map[Key]*Session
	byUser map[string]Key
}

// NewStore builds a store over the given catalog. Sessions idle longer
// than idleTimeout are expired by Sweep.
func NewStore(cat *catalog.Catalog, idleTimeout time.Duration) *Store {
	return &Store{
		cat:    cat,
		idle:   idleTimeout,
		byKey:  make(map[Key]*Session),
		byUser: make(map[string]Key),
	}
}

// Begin opens a session for the given key and target server. A user
// with an open session on another message gets ErrActiveElsewhere and
// that session's key, so the caller can point them at it.
func (s *Store) Begin(key Key, serverID string, now time.Time) (*Session, Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byUser[key.UserID]; ok {
		if sess, live := s.byKey[existing]; live && !sess.Step().Terminal() {
			return nil, existing, ErrActiveElsewhere
		}
	}

	sess := newSession(key, serverID, s.cat, now)
	s.byKey[key] = sess
	s.byUser[key.UserID] = key
	return sess, key, nil
}

// Acquire locks the session for one event. The returned release func
// must be called when handling is done; it also evicts the session if
// the event drove it to a terminal step. A second click while the lock
// is held gets ErrConflict instead of blocking.
func (s *Store) Acquire(key Key) (*Session, func(), error) {
	s.mu.Lock()
	sess, ok := s.byKey[key]
	s.mu.Unlock()
	if !ok {
		return nil, nil, ErrNotFound
	}

	if !sess.mu.TryLock() {
		return nil, nil, ErrConflict
	}
	release := func() {
		terminal := sess.Step().Terminal()
		sess.mu.Unlock()
		if terminal {
			s.evict(key)
		}
	}
	return sess, release, nil
}

func (s *Store) evict(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byKey[key]; ok && sess.Step().Terminal() {
		delete(s.byKey, key)
		if s.byUser[key.UserID] == key {
			delete(s.byUser, key.UserID)
		}
	}
}

// Sweep expires sessions idle past the timeout and returns them so the
// caller can update the flow messages. Returned sessions are already
// evicted. Sessions whose lock is held are skipped and picked up on a
// later sweep.
func (s *Store) Sweep(now time.Time) []*Session {
	s.mu.Lock()
	var candidates []*Session
	for _, sess := range s.byKey {
		candidates = append(candidates, sess)
	}
	s.mu.Unlock()

	var expired []*Session
	for _, sess := range candidates {
		if !sess.mu.TryLock() {
			continue
		}
		if !sess.Step().Terminal() && sess.IdleSince(now) >= s.idle {
			sess.expire()
			expired = append(expired, sess)
		}
		terminal := sess.Step().Terminal()
		sess.mu.Unlock()
		if terminal {
			s.evict(sess.Key)
		}
	}
	return expired
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}
