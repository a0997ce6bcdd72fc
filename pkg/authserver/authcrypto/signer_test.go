package authcrypto

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := NewSigner(key, "kid-1", "https://auth.example.com", 0)
	require.NoError(t, err)
	return signer
}

func TestSigner_SignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	signer := newTestSigner(t)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"aud":   "client-1",
		"exp":   now.Add(time.Hour).Unix(),
		"scope": "read",
	}

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	result, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.Claims["sub"])
	aud, ok := ClaimAudience(result.Claims)
	require.True(t, ok)
	assert.Equal(t, "client-1", aud)
}

func TestSigner_SignRejectsMissingClaims(t *testing.T) {
	t.Parallel()
	signer := newTestSigner(t)

	_, err := signer.Sign(jwt.MapClaims{"sub": "user-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aud")
}

func TestSigner_VerifyRejectsExpired(t *testing.T) {
	t.Parallel()
	signer := newTestSigner(t)

	claims := jwt.MapClaims{
		"sub": "user-1",
		"aud": "client-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestSigner_VerifySkipExpiryAcceptsExpired(t *testing.T) {
	t.Parallel()
	signer := newTestSigner(t)

	claims := jwt.MapClaims{
		"sub": "user-1",
		"aud": "client-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	result, err := signer.Verify(token, WithSkipExpiry())
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.Claims["sub"])
}

func TestSigner_VerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signerA, err := NewSigner(key, "kid-1", "https://a.example.com", 0)
	require.NoError(t, err)
	signerB, err := NewSigner(key, "kid-1", "https://b.example.com", 0)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub": "user-1",
		"aud": "client-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := signerA.Sign(claims)
	require.NoError(t, err)

	_, err = signerB.Verify(token)
	assert.Error(t, err)
}

func TestSigner_VerifyRejectsTamperedSignature(t *testing.T) {
	t.Parallel()
	signer := newTestSigner(t)
	other := newTestSigner(t)

	claims := jwt.MapClaims{
		"sub": "user-1",
		"aud": "client-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestSigner_JWKSJSON(t *testing.T) {
	t.Parallel()
	signer := newTestSigner(t)

	raw, err := signer.JWKSJSON()
	require.NoError(t, err)

	var doc struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Keys, 1)
	assert.Equal(t, "RSA", doc.Keys[0]["kty"])
	assert.Equal(t, "sig", doc.Keys[0]["use"])
	assert.Equal(t, "RS256", doc.Keys[0]["alg"])
	assert.Equal(t, "kid-1", doc.Keys[0]["kid"])
}
