package server

import (
	"html/template"
	"net/http"

	"github.com/dgellow/auth-front/internal/log"
	"github.com/dgellow/auth-front/internal/session"
)

// providerDisplayNames maps provider type identifiers to what the pages
// show on buttons and headings.
var providerDisplayNames = map[string]string{
	"google": "Google",
	"github": "GitHub",
}

// Handlers serves the HTML pages around the login flow. It also implements
// flow.ErrorRenderer so the controller can surface failures as pages.
type Handlers struct {
	sessions     *session.Manager
	providerName string
}

// NewHandlers creates page handlers for the given provider type.
func NewHandlers(sessions *session.Manager, providerType string) *Handlers {
	name, ok := providerDisplayNames[providerType]
	if !ok {
		name = providerType
	}
	return &Handlers{
		sessions:     sessions,
		providerName: name,
	}
}

// HomeHandler renders the sign-in page, or sends an already authenticated
// browser straight to the welcome page.
func (h *Handlers) HomeHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.FromRequest(r); ok {
		http.Redirect(w, r, "/welcome", http.StatusFound)
		return
	}
	h.renderPage(w, http.StatusOK, homeTemplate, HomePageData{ProviderName: h.providerName})
}

// WelcomeHandler renders the post-login confirmation page. Access control
// happens in the RequireAuth wrapper.
func (h *Handlers) WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, welcomeTemplate, WelcomePageData{ProviderName: h.providerName})
}

// DashboardHandler renders the full profile view.
func (h *Handlers) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.FromRequest(r)
	if !ok {
		// RequireAuth already checked, but the session can expire between
		// the check and the read
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.renderPage(w, http.StatusOK, dashboardTemplate, DashboardPageData{Profile: sess.Profile})
}

// NotFoundHandler renders the generic 404 page.
func (h *Handlers) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.RenderError(w, http.StatusNotFound, "Page not found", "")
}

// RenderError renders the error page with the given status. Implements
// flow.ErrorRenderer.
func (h *Handlers) RenderError(w http.ResponseWriter, status int, message, detail string) {
	h.renderPage(w, status, errorTemplate, ErrorPageData{Message: message, Detail: detail})
}

func (h *Handlers) renderPage(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.LogError("Failed to render page: %v", err)
	}
}
