package cookie

import (
	"net/http"
	"time"

	"github.com/dgellow/auth-front/internal/envutil"
	"github.com/dgellow/auth-front/internal/log"
)

// Cookie names used across the login flow
const (
	StateCookie   = "oauth_state"
	ProbeCookie   = "test_cookie"
	SessionCookie = "auth_session"
)

// StateMaxAge bounds how long an in-flight login may take before the
// signed state cookie expires.
const StateMaxAge = 600 * time.Second

// SetState sets the signed OAuth state cookie. It is deliberately not
// HttpOnly so cookie problems can be diagnosed from the browser console.
func SetState(w http.ResponseWriter, value string) {
	secure := !envutil.IsDev()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(StateMaxAge.Seconds()),
	})

	log.LogDebugWithFields("cookie", "State cookie set", map[string]any{
		"maxAge": StateMaxAge.String(),
		"secure": secure,
	})
}

// SetProbe sets a throwaway cookie so the callback can tell whether the
// browser returns cookies at all.
func SetProbe(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ProbeCookie,
		Value:    "works",
		Path:     "/",
		HttpOnly: false,
		Secure:   !envutil.IsDev(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(StateMaxAge.Seconds()),
	})
}

// SetSession sets the session cookie with appropriate security settings
func SetSession(w http.ResponseWriter, value string, maxAge time.Duration) {
	secure := !envutil.IsDev()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})

	log.LogDebugWithFields("cookie", "Session cookie set", map[string]any{
		"maxAge": maxAge.String(),
		"secure": secure,
	})
}

// Clear removes a cookie by setting MaxAge to -1
func Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// ClearLoginCookies removes the single-use state and probe cookies
func ClearLoginCookies(w http.ResponseWriter) {
	Clear(w, StateCookie)
	Clear(w, ProbeCookie)
}

// ClearSession removes the session cookie
func ClearSession(w http.ResponseWriter) {
	Clear(w, SessionCookie)
}

// Get retrieves a cookie value from the request
func Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
