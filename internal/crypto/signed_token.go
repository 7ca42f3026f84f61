package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Verification failures are distinguished so callers can report tampering
// separately from expiry.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// TokenSigner provides HMAC-signed JSON tokens with a bounded lifetime
type TokenSigner struct {
	signingKey []byte
	maxAge     time.Duration
}

// NewTokenSigner creates a new token signer. Tokens older than maxAge fail
// verification; a zero maxAge disables the expiry check.
func NewTokenSigner(signingKey []byte, maxAge time.Duration) TokenSigner {
	return TokenSigner{
		signingKey: signingKey,
		maxAge:     maxAge,
	}
}

// TokenData wraps user data with the issue timestamp
type TokenData struct {
	Data     json.RawMessage `json:"data"`
	IssuedAt time.Time       `json:"issued_at"`
}

// Sign marshals data to JSON, stamps it with the issue time, signs it with
// HMAC, and returns a cookie-safe token string.
func (ts *TokenSigner) Sign(v any) (string, error) {
	userData, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	tokenData := TokenData{
		Data:     userData,
		IssuedAt: time.Now(),
	}

	jsonData, err := json.Marshal(tokenData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token data: %w", err)
	}

	signature := SignData(string(jsonData), ts.signingKey)

	return fmt.Sprintf("%s.%s", base64.URLEncoding.EncodeToString(jsonData), signature), nil
}

// Verify validates the signature, checks the token age, and unmarshals the
// payload into v. It fails closed: any tampering, truncation, or expiry
// yields an error and leaves the payload unread.
func (ts *TokenSigner) Verify(token string, v any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return ErrMalformedToken
	}

	jsonData, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if !ValidateSignedData(string(jsonData), parts[1], ts.signingKey) {
		return ErrInvalidSignature
	}

	var tokenData TokenData
	if err := json.Unmarshal(jsonData, &tokenData); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if ts.maxAge > 0 && time.Since(tokenData.IssuedAt) > ts.maxAge {
		return ErrTokenExpired
	}

	if err := json.Unmarshal(tokenData.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return nil
}
