package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgellow/auth-front/internal/idp"
)

// Session binds a browser to an authenticated user profile for its
// lifetime. Sessions live only in process memory; a restart logs every
// user out.
type Session struct {
	ID        string
	Profile   idp.UserProfile
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is an in-memory session store safe for concurrent use. One entry
// is created per login, read on every access-controlled request, and
// deleted on logout. Expired entries are dropped lazily on read.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store. Sessions expire ttl after creation.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create binds the profile to a fresh opaque session identifier.
func (s *Store) Create(profile idp.UserProfile) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for the given identifier, or false if it is
// absent or expired.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.Destroy(id)
		return nil, false
	}
	return sess, true
}

// Destroy removes the session. Destroying an absent session is not an
// error.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live entries, including not-yet-reaped
// expired ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
