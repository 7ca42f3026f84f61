package server

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/auth-front/internal/idp"
)

// The dashboard template calls methods on the profile value directly, so
// rendering must work without taking the profile's address.
func TestDashboardTemplate_RendersProfileValue(t *testing.T) {
	data := DashboardPageData{
		Profile: idp.UserProfile{
			Provider:    "github",
			Subject:     "42",
			Login:       "ada",
			Name:        "Ada",
			Email:       "ada@example.com",
			AvatarURL:   "https://avatars.example/ada.png",
			Bio:         "Analyst",
			PublicRepos: 3,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, dashboardTemplate.ExecuteTemplate(&buf, "layout", data))

	body := buf.String()
	assert.Contains(t, body, "Hello, Ada!")
	assert.Contains(t, body, "@ada")
	assert.Contains(t, body, "ada@example.com")
	assert.Contains(t, body, "Analyst")
}

func TestDashboardTemplate_GoogleRows(t *testing.T) {
	data := DashboardPageData{
		Profile: idp.UserProfile{
			Provider:      "google",
			Subject:       "108",
			Name:          "Ada",
			Email:         "ada@example.com",
			EmailVerified: true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, dashboardTemplate.ExecuteTemplate(&buf, "layout", data))

	body := buf.String()
	assert.Contains(t, body, "Account ID")
	assert.Contains(t, body, "108")
	assert.Contains(t, body, "Verified")
}
