// Package authcrypto groups the pure cryptographic primitives the
// authorization server depends on: RS256 JWT signing and verification with
// JWK publication, bcrypt password hashing, PKCE derivation, and signing
// key loading. Nothing in this package performs I/O beyond key loading at
// startup; Sign and Verify are pure functions of their inputs.
package authcrypto

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// Algorithm is the only JWS algorithm this authorization server signs or
// verifies with, per section 4.1.
const Algorithm = "RS256"

// Signer signs and verifies RS256 JWTs and publishes the corresponding JWK
// set. A Signer is read-only after construction and is safe for concurrent
// use by any number of handlers.
type Signer struct {
	keyID      string
	issuer     string
	clockSkew  time.Duration
	privateKey *rsa.PrivateKey
	jwks       jwk.Set
}

// NewSigner constructs a Signer from a private key, its kid, the token
// issuer, and the clock skew tolerance applied during verification.
func NewSigner(key *rsa.PrivateKey, keyID, issuer string, clockSkew time.Duration) (*Signer, error) {
	jwks, err := buildJWKS(&key.PublicKey, keyID)
	if err != nil {
		return nil, fmt.Errorf("failed to build JWK set: %w", err)
	}
	return &Signer{
		keyID:      keyID,
		issuer:     issuer,
		clockSkew:  clockSkew,
		privateKey: key,
		jwks:       jwks,
	}, nil
}

func buildJWKS(pub *rsa.PublicKey, keyID string) (jwk.Set, error) {
	key, err := jwk.Import(pub)
	if err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.AlgorithmKey, Algorithm); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, err
	}

	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, err
	}
	return set, nil
}

// JWKSJSON returns the published JWK set, marshaled for the
// /.well-known/jwks.json surface.
func (s *Signer) JWKSJSON() ([]byte, error) {
	return json.Marshal(s.jwks)
}

// requiredClaims that Sign refuses to issue a token without, per
// section 4.1.
var requiredClaims = []string{"sub", "aud", "exp"}

// Sign signs claims with RS256 and the configured kid. claims must already
// contain sub, aud, and exp; Sign fills in iss and iat if absent and
// rejects the request otherwise.
func (s *Signer) Sign(claims jwt.MapClaims) (string, error) {
	for _, name := range requiredClaims {
		if _, ok := claims[name]; !ok {
			return "", fmt.Errorf("missing required claim %q", name)
		}
	}
	if _, ok := claims["iss"]; !ok {
		claims["iss"] = s.issuer
	}
	if _, ok := claims["iat"]; !ok {
		claims["iat"] = time.Now().Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyResult carries the outcome of Verify's success path.
type VerifyResult struct {
	Claims jwt.MapClaims
}

// verifyOptions controls Verify's enforcement of claims beyond the
// signature itself.
type verifyOptions struct {
	skipExpiry bool
}

// VerifyOption customizes a single Verify call.
type VerifyOption func(*verifyOptions)

// WithSkipExpiry disables exp enforcement. Section 4.9 requires revocation
// to verify a token's signature and issuer without regard to expiry, so a
// token can be revoked even after it would otherwise be rejected as
// expired.
func WithSkipExpiry() VerifyOption {
	return func(o *verifyOptions) { o.skipExpiry = true }
}

// Verify parses a compact JWT and checks its RS256 signature against the
// signer's public key, plus iss and, unless WithSkipExpiry is given, exp.
// Verify does not check aud; callers enforce the ownership rule for their
// specific operation (introspection, revocation, refresh) against the
// authenticating client. Verify is pure and performs no I/O.
func (s *Signer) Verify(tokenString string, opts ...VerifyOption) (*VerifyResult, error) {
	options := verifyOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	claims := jwt.MapClaims{}
	parserOpts := []jwt.ParserOption{jwt.WithLeeway(s.clockSkew)}
	if options.skipExpiry {
		parserOpts = append(parserOpts, jwt.WithoutClaimsValidation())
	}
	parser := jwt.NewParser(parserOpts...)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != Algorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &s.privateKey.PublicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("malformed or invalid signature: %w", err)
	}
	if !options.skipExpiry && !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != s.issuer {
		return nil, fmt.Errorf("wrong issuer")
	}

	if !options.skipExpiry {
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			return nil, fmt.Errorf("missing expiration")
		}
	}

	return &VerifyResult{Claims: claims}, nil
}

// ClaimAudience returns the single audience value carried by claims, the
// form every token issued by this server uses (aud is always the one
// client_id the token was issued to).
func ClaimAudience(claims jwt.MapClaims) (string, bool) {
	audiences, err := claims.GetAudience()
	if err != nil || len(audiences) == 0 {
		return "", false
	}
	return audiences[0], true
}
