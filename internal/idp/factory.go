package idp

import (
	"fmt"

	"github.com/dgellow/auth-front/internal/config"
)

// NewProvider creates a Provider for the configured identity provider.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case "google":
		return NewGoogleProvider(
			cfg.ClientID,
			string(cfg.ClientSecret),
			cfg.RedirectURI,
		), nil

	case "github":
		return NewGitHubProvider(
			cfg.ClientID,
			string(cfg.ClientSecret),
			cfg.RedirectURI,
		), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider)
	}
}
