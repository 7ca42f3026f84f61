package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dgellow/auth-front/internal/crypto"
	"github.com/dgellow/auth-front/internal/log"
)

// Configuration failures are fatal: the process refuses to start without
// provider credentials.
var (
	ErrMissingClientID     = errors.New("missing client id")
	ErrMissingClientSecret = errors.New("missing client secret")
	ErrUnknownProvider     = errors.New("unknown provider")
)

// Credentials holds the per-provider OAuth client credentials. The env
// variable names are prefixed with the provider name at load time, so the
// Google deployment reads GOOGLE_CLIENT_ID and the GitHub one
// GITHUB_CLIENT_ID.
type Credentials struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret Secret `env:"CLIENT_SECRET"`
}

// Config is the immutable process configuration, loaded once at startup
// and passed by reference into the flow controller and provider adapter.
type Config struct {
	Provider    string `env:"OAUTH_PROVIDER" envDefault:"google"`
	RedirectURI string `env:"REDIRECT_URI" envDefault:"http://localhost:5000/callback"`
	SecretKey   Secret `env:"SECRET_KEY"`
	Addr        string `env:"ADDR" envDefault:":5000"`

	// Parsed separately with the provider name as prefix
	Credentials `env:"-"`
}

// Load reads configuration from the environment. The signing secret falls
// back to a fresh random value, which invalidates all sessions and
// in-flight state tokens on every restart.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Provider = strings.ToLower(cfg.Provider)
	switch cfg.Provider {
	case "google", "github":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	opts := env.Options{Prefix: strings.ToUpper(cfg.Provider) + "_"}
	if err := env.ParseWithOptions(&cfg.Credentials, opts); err != nil {
		return nil, fmt.Errorf("failed to parse %s credentials: %w", cfg.Provider, err)
	}

	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingClientID, opts.Prefix+"CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingClientSecret, opts.Prefix+"CLIENT_SECRET")
	}

	if cfg.SecretKey == "" {
		key, err := crypto.GenerateSecureToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		cfg.SecretKey = Secret(key)
		log.LogWarnWithFields("config", "SECRET_KEY not set, generated ephemeral signing secret; sessions will not survive a restart", nil)
	}

	return cfg, nil
}
