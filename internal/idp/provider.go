package idp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// UserProfile is the canonical user record produced after a successful
// exchange, regardless of which identity provider authenticated the user.
// Provider-specific extras (bio, public repo count) are optional.
type UserProfile struct {
	Provider      string `json:"provider"`
	Subject       string `json:"sub"`
	Login         string `json:"login,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Bio           string `json:"bio,omitempty"`
	PublicRepos   int    `json:"public_repos,omitempty"`
	ProfileURL    string `json:"profile_url,omitempty"`
}

// DisplayName returns the best human-readable name for the profile.
// Value receiver so templates can call it on a UserProfile value.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Login != "" {
		return p.Login
	}
	return p.Email
}

// Provider abstracts identity provider operations for the authorization
// code flow.
type Provider interface {
	// Type returns the provider type identifier (e.g., "google", "github").
	Type() string

	// AuthURL generates the authorization URL carrying the given state.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for tokens.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// UserInfo fetches user information with the access token.
	UserInfo(ctx context.Context, token *oauth2.Token) (*UserProfile, error)
}

// ErrNoAccessToken indicates the token endpoint answered 200 but the
// response carried no access token.
var ErrNoAccessToken = errors.New("token response missing access token")

// TokenExchangeError reports a non-200 answer from the token endpoint.
type TokenExchangeError struct {
	Status int
	Body   string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: status %d: %s", e.Status, e.Body)
}

// ProfileError reports a non-200 answer from the user-info endpoint.
type ProfileError struct {
	Status int
	Body   string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile fetch failed: status %d: %s", e.Status, e.Body)
}

// mapExchangeError converts x/oauth2 exchange failures into the adapter's
// error types. Non-200 answers become TokenExchangeError; a 200 without an
// access token becomes ErrNoAccessToken.
func mapExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &TokenExchangeError{Status: status, Body: string(retrieveErr.Body)}
	}
	if strings.Contains(err.Error(), "missing access_token") {
		return ErrNoAccessToken
	}
	return err
}

// checkToken guards against a token response that parsed but carries no
// usable access token.
func checkToken(token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return token, nil
}
