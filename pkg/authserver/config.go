// Package authserver is the core authorization-server façade: it wires the
// repository and cache contracts, the client/user authenticators, and the
// grant handlers into a single TokenService exposing Issue, Introspect, and
// Revoke. HTTP framing, persistent storage, and configuration loading are
// the caller's responsibility; this package accepts already-resolved values
// through explicit constructor parameters only.
package authserver

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/jedi-knights/identity-service/internal/logger"
	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
)

// Config is the pure configuration for the authorization server. All
// values must already be fully resolved (no file paths, no env vars) by
// the time Validate is called.
type Config struct {
	// Issuer is placed in the "iss" claim of every issued token.
	Issuer string

	// SigningKey is the RSA private key used to sign tokens with RS256.
	SigningKey *rsa.PrivateKey

	// KeyID is the stable key identifier carried in the JWT "kid" header
	// and published in the JWK set.
	KeyID string

	// AccessTokenTTL is how long issued access tokens remain valid.
	// If zero, defaults to 30 minutes.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is how long issued refresh tokens remain valid.
	// If zero, defaults to 7 days.
	RefreshTokenTTL time.Duration

	// AuthCodeTTL is how long an authorization code remains redeemable.
	// If zero, defaults to 10 minutes.
	AuthCodeTTL time.Duration

	// IntrospectionCacheTTL bounds how long a cached introspection result
	// may be served before falling back to direct verification. If zero,
	// defaults to 5 minutes.
	IntrospectionCacheTTL time.Duration

	// BcryptCost is the bcrypt cost factor applied to stored password and
	// client-secret hashes. If zero, defaults to 12.
	BcryptCost int

	// ClockSkew is the leeway applied when verifying exp/iat/nbf. Defaults
	// to zero.
	ClockSkew time.Duration
}

// applyDefaults fills unset fields with the defaults in section 6.5.
func (c *Config) applyDefaults() {
	logger.Debug("applying default values to authserver config")

	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 30 * time.Minute
		logger.Debugw("applied default access token TTL", "duration", c.AccessTokenTTL)
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = 7 * 24 * time.Hour
		logger.Debugw("applied default refresh token TTL", "duration", c.RefreshTokenTTL)
	}
	if c.AuthCodeTTL == 0 {
		c.AuthCodeTTL = 10 * time.Minute
		logger.Debugw("applied default auth code TTL", "duration", c.AuthCodeTTL)
	}
	if c.IntrospectionCacheTTL == 0 {
		c.IntrospectionCacheTTL = 5 * time.Minute
		logger.Debugw("applied default introspection cache TTL", "duration", c.IntrospectionCacheTTL)
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = authcrypto.MinBcryptCost
		logger.Debugw("applied default bcrypt cost", "cost", c.BcryptCost)
	}
}

// Validate applies defaults and checks that Config is usable. It is safe
// to call more than once.
func (c *Config) Validate() error {
	logger.Debugw("validating authserver config", "issuer", c.Issuer)

	c.applyDefaults()

	if c.Issuer == "" {
		return fmt.Errorf("issuer is required")
	}
	if c.KeyID == "" {
		return fmt.Errorf("key ID is required")
	}
	if c.SigningKey == nil {
		return fmt.Errorf("signing key is required")
	}
	if c.SigningKey.N.BitLen() < authcrypto.MinRSAKeyBits {
		return fmt.Errorf("RSA signing key must be at least %d bits, got %d", authcrypto.MinRSAKeyBits, c.SigningKey.N.BitLen())
	}
	if c.BcryptCost < authcrypto.MinBcryptCost {
		return fmt.Errorf("bcrypt cost must be at least %d, got %d", authcrypto.MinBcryptCost, c.BcryptCost)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("refresh token TTL must be positive")
	}
	if c.AuthCodeTTL <= 0 {
		return fmt.Errorf("auth code TTL must be positive")
	}

	logger.Debugw("authserver config validation passed",
		"issuer", c.Issuer,
		"keyID", c.KeyID,
		"accessTokenTTL", c.AccessTokenTTL,
		"refreshTokenTTL", c.RefreshTokenTTL,
	)
	return nil
}
