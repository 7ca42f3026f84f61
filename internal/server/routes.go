package server

import (
	"net/http"

	"github.com/dgellow/auth-front/internal/flow"
	"github.com/dgellow/auth-front/internal/session"
)

// NewRouter wires the fixed HTTP surface: the public sign-in pages, the
// login flow endpoints, and the session-guarded profile pages. Unknown
// paths fall through to the 404 page.
func NewRouter(ctrl *flow.Controller, h *Handlers, sessions *session.Manager) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HomeHandler)
	mux.HandleFunc("GET /login", ctrl.LoginHandler)
	mux.HandleFunc("GET /callback", ctrl.CallbackHandler)
	mux.HandleFunc("GET /logout", ctrl.LogoutHandler)
	mux.Handle("GET /welcome", sessions.RequireAuth(http.HandlerFunc(h.WelcomeHandler)))
	mux.Handle("GET /dashboard", sessions.RequireAuth(http.HandlerFunc(h.DashboardHandler)))
	mux.Handle("GET /healthz", NewHealthHandler())
	mux.HandleFunc("/", h.NotFoundHandler)

	return ChainMiddleware(mux,
		NewRecoverMiddleware(h),
		NewLoggerMiddleware("http"),
	)
}
