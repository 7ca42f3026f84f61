package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// requestTimeout bounds every outbound provider call. Calls are single
// attempts; a timeout or failure is terminal for the login attempt.
const requestTimeout = 30 * time.Second

// GoogleProvider implements the Provider interface for Google OAuth.
// Google requires explicit scopes for basic profile data and uses the
// legacy v2 userinfo field names (`id`, `verified_email`).
type GoogleProvider struct {
	config      oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// googleUserInfoResponse represents the v2 userinfo response.
type googleUserInfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogleProvider creates a new Google OAuth provider.
func NewGoogleProvider(clientID, clientSecret, redirectURI string) *GoogleProvider {
	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

// Type returns the provider type.
func (p *GoogleProvider) Type() string {
	return "google"
}

// AuthURL generates the authorization URL. Google additionally wants
// access_type=offline and prompt=consent for a full consent screen.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	)
}

// ExchangeCode exchanges an authorization code for tokens.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, mapExchangeError(err)
	}
	return checkToken(token)
}

// UserInfo fetches user information from Google's userinfo endpoint.
func (p *GoogleProvider) UserInfo(ctx context.Context, token *oauth2.Token) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProfileError{Status: resp.StatusCode, Body: string(body)}
	}

	var googleUser googleUserInfoResponse
	if err := json.Unmarshal(body, &googleUser); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	// Some accounts carry no display name; fall back to the email address
	name := googleUser.Name
	if name == "" {
		name = googleUser.Email
	}

	return &UserProfile{
		Provider:      "google",
		Subject:       googleUser.ID,
		Name:          name,
		Email:         googleUser.Email,
		EmailVerified: googleUser.VerifiedEmail,
		AvatarURL:     googleUser.Picture,
	}, nil
}
