package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/auth-front/internal/cookie"
	"github.com/dgellow/auth-front/internal/idp"
)

func testProfile() idp.UserProfile {
	return idp.UserProfile{
		Provider: "github",
		Subject:  "42",
		Login:    "ada",
		Name:     "Ada",
	}
}

// requestWithCookies copies Set-Cookie headers from a response into a new
// request, the way a browser would.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestManager_StartAndFromRequest(t *testing.T) {
	m := NewManager([]byte("signing-key"), time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, testProfile()))

	req := requestWithCookies(t, rec, "/dashboard")
	sess, ok := m.FromRequest(req)
	require.True(t, ok)
	assert.Equal(t, "42", sess.Profile.Subject)
	assert.Equal(t, "Ada", sess.Profile.Name)
}

func TestManager_RejectsTamperedCookie(t *testing.T) {
	m := NewManager([]byte("signing-key"), time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, testProfile()))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionCookie, Value: "forged.token"})

	_, ok := m.FromRequest(req)
	assert.False(t, ok)
}

func TestManager_RejectsCookieSignedWithOtherKey(t *testing.T) {
	mA := NewManager([]byte("key-a"), time.Hour)
	mB := NewManager([]byte("key-b"), time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, mA.Start(rec, testProfile()))

	req := requestWithCookies(t, rec, "/dashboard")
	_, ok := mB.FromRequest(req)
	assert.False(t, ok)
}

func TestManager_EndIsIdempotent(t *testing.T) {
	m := NewManager([]byte("signing-key"), time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, testProfile()))
	req := requestWithCookies(t, rec, "/logout")

	m.End(httptest.NewRecorder(), req)
	_, ok := m.FromRequest(req)
	assert.False(t, ok)

	// Second logout with the same stale cookie must not error or panic
	m.End(httptest.NewRecorder(), req)
	assert.Equal(t, 0, m.store.Len())
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	sess := s.Create(testProfile())

	_, ok := s.Get(sess.ID)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = s.Get(sess.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired session should be reaped on read")
}

func TestRequireAuth(t *testing.T) {
	m := NewManager([]byte("signing-key"), time.Hour)

	var called bool
	guarded := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous request is redirected, handler never runs
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.False(t, called)

	// Authenticated request passes through
	loginRec := httptest.NewRecorder()
	require.NoError(t, m.Start(loginRec, testProfile()))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, requestWithCookies(t, loginRec, "/dashboard"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
