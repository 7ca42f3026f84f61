package idp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/auth-front/internal/config"
)

func TestNewProvider(t *testing.T) {
	base := config.Config{
		RedirectURI: "http://localhost:5000/callback",
		Credentials: config.Credentials{
			ClientID:     "client",
			ClientSecret: "secret",
		},
	}

	t.Run("google", func(t *testing.T) {
		cfg := base
		cfg.Provider = "google"
		p, err := NewProvider(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "google", p.Type())
	})

	t.Run("github", func(t *testing.T) {
		cfg := base
		cfg.Provider = "github"
		p, err := NewProvider(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "github", p.Type())
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := base
		cfg.Provider = "gitlab"
		_, err := NewProvider(&cfg)
		assert.Error(t, err)
	})
}
