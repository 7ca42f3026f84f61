package session

import (
	"net/http"
	"time"

	"github.com/dgellow/auth-front/internal/cookie"
	"github.com/dgellow/auth-front/internal/crypto"
	"github.com/dgellow/auth-front/internal/idp"
	"github.com/dgellow/auth-front/internal/log"
)

// DefaultTTL is how long a session stays valid after login.
const DefaultTTL = 24 * time.Hour

// Manager ties the session store to the browser: the cookie carries the
// session identifier wrapped in a signed token, so a forged or tampered
// cookie never reaches the store.
type Manager struct {
	store  *Store
	signer crypto.TokenSigner
}

// NewManager creates a session manager signing cookie handles with the
// given key.
func NewManager(signingKey []byte, ttl time.Duration) *Manager {
	return &Manager{
		store:  NewStore(ttl),
		signer: crypto.NewTokenSigner(signingKey, ttl),
	}
}

// Start creates a session for the profile and sets the session cookie.
func (m *Manager) Start(w http.ResponseWriter, profile idp.UserProfile) error {
	sess := m.store.Create(profile)

	token, err := m.signer.Sign(sess.ID)
	if err != nil {
		m.store.Destroy(sess.ID)
		return err
	}

	cookie.SetSession(w, token, m.store.ttl)
	log.LogInfoWithFields("session", "Session created", map[string]any{
		"provider": profile.Provider,
		"subject":  profile.Subject,
	})
	return nil
}

// FromRequest returns the session for the request's cookie, or false when
// the cookie is absent, tampered with, expired, or the session is gone.
func (m *Manager) FromRequest(r *http.Request) (*Session, bool) {
	token, err := cookie.Get(r, cookie.SessionCookie)
	if err != nil {
		return nil, false
	}

	var id string
	if err := m.signer.Verify(token, &id); err != nil {
		log.LogDebugWithFields("session", "Rejected session cookie", map[string]any{
			"error": err.Error(),
		})
		return nil, false
	}

	return m.store.Get(id)
}

// End destroys the request's session, if any, and clears the cookie.
// Logging out twice is not an error.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if sess, ok := m.FromRequest(r); ok {
		m.store.Destroy(sess.ID)
		log.LogInfoWithFields("session", "Session destroyed", map[string]any{
			"subject": sess.Profile.Subject,
		})
	}
	cookie.ClearSession(w)
}

// RequireAuth guards access-controlled handlers: without a valid session
// the request is redirected to the sign-in page instead of reaching the
// wrapped handler.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.FromRequest(r); !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
