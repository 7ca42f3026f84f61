package crypto

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner([]byte("test-signing-key"), 10*time.Minute)

	state, err := GenerateSecureToken()
	require.NoError(t, err)

	token, err := signer.Sign(state)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	var recovered string
	err = signer.Verify(token, &recovered)
	require.NoError(t, err)
	assert.Equal(t, state, recovered)
}

func TestTokenSigner_WrongKey(t *testing.T) {
	signerA := NewTokenSigner([]byte("key-a"), 10*time.Minute)
	signerB := NewTokenSigner([]byte("key-b"), 10*time.Minute)

	token, err := signerA.Sign("some-state")
	require.NoError(t, err)

	var recovered string
	err = signerB.Verify(token, &recovered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, recovered)
}

func TestTokenSigner_Tampered(t *testing.T) {
	signer := NewTokenSigner([]byte("test-signing-key"), 10*time.Minute)

	token, err := signer.Sign("some-state")
	require.NoError(t, err)

	// Flip the payload while keeping the signature
	parts := strings.SplitN(token, ".", 2)
	require.Len(t, parts, 2)

	forged, err := json.Marshal(TokenData{
		Data:     json.RawMessage(`"other-state"`),
		IssuedAt: time.Now(),
	})
	require.NoError(t, err)
	tampered := base64.URLEncoding.EncodeToString(forged) + "." + parts[1]

	var recovered string
	err = signer.Verify(tampered, &recovered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenSigner_Expired(t *testing.T) {
	key := []byte("test-signing-key")
	signer := NewTokenSigner(key, 10*time.Minute)

	// Build a correctly signed token with an issue time outside the window
	payload, err := json.Marshal(TokenData{
		Data:     json.RawMessage(`"stale-state"`),
		IssuedAt: time.Now().Add(-11 * time.Minute),
	})
	require.NoError(t, err)
	token := base64.URLEncoding.EncodeToString(payload) + "." + SignData(string(payload), key)

	var recovered string
	err = signer.Verify(token, &recovered)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSigner_Malformed(t *testing.T) {
	signer := NewTokenSigner([]byte("test-signing-key"), 10*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no_separator", "justonechunk"},
		{"too_many_parts", "a.b.c"},
		{"invalid_base64", "!!!.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recovered string
			err := signer.Verify(tt.token, &recovered)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestTokenSigner_ZeroMaxAgeNeverExpires(t *testing.T) {
	key := []byte("test-signing-key")
	signer := NewTokenSigner(key, 0)

	payload, err := json.Marshal(TokenData{
		Data:     json.RawMessage(`"old-but-fine"`),
		IssuedAt: time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	token := base64.URLEncoding.EncodeToString(payload) + "." + SignData(string(payload), key)

	var recovered string
	require.NoError(t, signer.Verify(token, &recovered))
	assert.Equal(t, "old-but-fine", recovered)
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken()
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Each call generates a unique token
	token2, err := GenerateSecureToken()
	assert.NoError(t, err)
	assert.NotEqual(t, token, token2)

	// base64 encoding of 32 bytes should be at least 40 chars
	assert.GreaterOrEqual(t, len(token), 40)
}

func TestSignData_Validate(t *testing.T) {
	key := []byte("hmac-key")
	sig := SignData("payload", key)

	assert.True(t, ValidateSignedData("payload", sig, key))
	assert.False(t, ValidateSignedData("payload", sig, []byte("other-key")))
	assert.False(t, ValidateSignedData("other-payload", sig, key))
	assert.False(t, ValidateSignedData("payload", "not-base64!!!", key))
}
