package server

import (
	"embed"
	"html/template"

	"github.com/dgellow/auth-front/internal/idp"
)

//go:embed templates
var templateFS embed.FS

var (
	homeTemplate      = parsePage("home.html")
	welcomeTemplate   = parsePage("welcome.html")
	dashboardTemplate = parsePage("dashboard.html")
	errorTemplate     = parsePage("error.html")
)

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// HomePageData feeds the sign-in page
type HomePageData struct {
	ProviderName string
}

// WelcomePageData feeds the post-login confirmation page
type WelcomePageData struct {
	ProviderName string
}

// DashboardPageData feeds the profile view
type DashboardPageData struct {
	Profile idp.UserProfile
}

// ErrorPageData feeds the error page; Detail is an optional debug blob
// (provider status line or response body)
type ErrorPageData struct {
	Message string
	Detail  string
}
