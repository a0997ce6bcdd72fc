package authserver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jedi-knights/identity-service/internal/logger"
	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/authn"
	"github.com/jedi-knights/identity-service/pkg/authserver/grant"
	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

// TokenResponse is the JSON body returned from a successful POST
// /oauth2/token request, per section 6.1.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

// IntrospectionResponse is the JSON body returned from POST
// /oauth2/introspect, per RFC 7662 and section 6.1. Active is the only
// field guaranteed present; the rest are populated only when Active is
// true.
type IntrospectionResponse struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Sub       string `json:"sub,omitempty"`
	Aud       string `json:"aud,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	TokenType string `json:"token_type,omitempty"`
}

var inactiveIntrospection = IntrospectionResponse{Active: false}

// TokenService is the core authorization-server façade of section 4.9: it
// dispatches token issuance to the grant package and implements
// introspection (cache-first) and revocation against the same repository
// and cache contracts. It holds no HTTP concerns and is safe for
// concurrent use by any number of callers.
type TokenService struct {
	deps                  grant.Deps
	clients               *authn.ClientAuthenticator
	users                 store.UserRepository
	revoked               store.RevokedTokenStore
	signer                *authcrypto.Signer
	cache                 store.Cache
	introspectionCacheTTL time.Duration
	now                   func() time.Time
}

// NewTokenService validates cfg and wires the collaborators into a
// TokenService. cache may be nil, in which case introspection always
// verifies directly.
func NewTokenService(
	cfg Config,
	clients store.ClientRepository,
	users store.UserRepository,
	authCodes store.AuthCodeStore,
	revoked store.RevokedTokenStore,
	cache store.Cache,
) (*TokenService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	signer, err := authcrypto.NewSigner(cfg.SigningKey, cfg.KeyID, cfg.Issuer, cfg.ClockSkew)
	if err != nil {
		return nil, err
	}

	hasher, err := authcrypto.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	clientAuth := authn.NewClientAuthenticator(clients, hasher)

	deps := grant.Deps{
		Clients:    clientAuth,
		Users:      authn.NewUserAuthenticator(users, hasher),
		ClientRepo: clients,
		Signer:     signer,
		AuthCodes:  authCodes,
		Revoked:    revoked,
		Now:        time.Now,
		NewJTI:     uuid.NewString,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}

	return &TokenService{
		deps:                  deps,
		clients:               clientAuth,
		users:                 users,
		revoked:               revoked,
		signer:                signer,
		cache:                 cache,
		introspectionCacheTTL: cfg.IntrospectionCacheTTL,
		now:                   time.Now,
	}, nil
}

// JWKSJSON returns the published JWK set for the /.well-known/jwks.json
// surface.
func (s *TokenService) JWKSJSON() ([]byte, error) {
	return s.signer.JWKSJSON()
}

// Issue dispatches a token request to the grant package by grantType, per
// section 4.9.
func (s *TokenService) Issue(ctx context.Context, grantType string, params grant.Params) (*TokenResponse, error) {
	result, err := grant.Dispatch(ctx, s.deps, grantType, params)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  result.AccessToken,
		TokenType:    result.TokenType,
		ExpiresIn:    result.ExpiresIn,
		RefreshToken: result.RefreshToken,
		Scope:        result.Scope,
	}, nil
}

// Introspect implements RFC 7662: it is cache-first, and every failure
// mode — invalid signature, expired, revoked, malformed, wrong client —
// collapses to {active:false} without revealing which. Introspection
// itself never returns an error for an inactive token; an error return
// indicates the client presenting the request could not be authenticated
// (invalid credentials, or server_error if the client lookup failed).
func (s *TokenService) Introspect(ctx context.Context, token, clientID, clientSecret string) (*IntrospectionResponse, error) {
	if _, err := s.clients.AuthenticateBasic(ctx, clientID, clientSecret); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, token); err == nil && ok {
			var resp IntrospectionResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil && resp.Active && resp.Aud == clientID {
				return &resp, nil
			}
		}
	}

	resp := s.verifyForIntrospection(ctx, token, clientID)

	// Only active results are cached: they carry the owning client in Aud,
	// so a hit is served to that client alone. An inactive result does not
	// record why it is inactive and is always re-verified.
	if s.cache != nil && resp.Active {
		if encoded, err := json.Marshal(resp); err == nil {
			ttl := min(time.Until(time.Unix(resp.Exp, 0)), s.introspectionCacheTTL)
			if ttl > 0 {
				_ = s.cache.Set(ctx, token, encoded, ttl)
			}
		}
	}

	return resp, nil
}

func (s *TokenService) verifyForIntrospection(ctx context.Context, token, clientID string) *IntrospectionResponse {
	verified, err := s.signer.Verify(token)
	if err != nil {
		return &inactiveIntrospection
	}
	claims := verified.Claims

	aud, ok := authcrypto.ClaimAudience(claims)
	if !ok || aud != clientID {
		return &inactiveIntrospection
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return &inactiveIntrospection
	}
	revoked, err := s.revoked.IsRevoked(ctx, jti)
	if err != nil {
		logger.Warnw("introspection revocation check failed, treating as inactive", "error", err)
		return &inactiveIntrospection
	}
	if revoked {
		return &inactiveIntrospection
	}

	sub, _ := claims["sub"].(string)
	scope, _ := claims["scope"].(string)
	tokenType, _ := claims["token_type"].(string)
	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)

	return &IntrospectionResponse{
		Active:    true,
		Scope:     scope,
		ClientID:  clientID,
		Username:  s.lookupUsername(ctx, sub),
		Sub:       sub,
		Aud:       aud,
		Exp:       int64(exp),
		Iat:       int64(iat),
		TokenType: tokenType,
	}
}

// lookupUsername resolves sub to a username for user-bound tokens. It is
// best-effort: client_credentials tokens carry a client_id as sub, which
// never resolves to a user, and a lookup failure must not fail
// introspection — it only omits the optional username field.
func (s *TokenService) lookupUsername(ctx context.Context, sub string) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.GetByID(ctx, sub)
	if err != nil {
		return ""
	}
	return user.Username
}

// Revoke implements RFC 7009 §2.2.1: revocation always returns success to
// the caller once the request is well-formed, even if the token is
// unknown, expired, or owned by a different client — callers must not be
// able to learn anything about a token's validity from this endpoint.
// Errors are returned only when the client cannot be authenticated or the
// revocation cannot be recorded (server_error).
func (s *TokenService) Revoke(ctx context.Context, token, clientID, clientSecret string) error {
	if _, err := s.clients.AuthenticateBasic(ctx, clientID, clientSecret); err != nil {
		return err
	}

	verified, err := s.signer.Verify(token, authcrypto.WithSkipExpiry())
	if err != nil {
		return nil
	}
	claims := verified.Claims

	aud, ok := authcrypto.ClaimAudience(claims)
	if !ok || aud != clientID {
		return nil
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	expiresAt := s.now().Add(24 * time.Hour)
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		expiresAt = time.Unix(int64(exp), 0)
	}

	if err := s.revoked.Revoke(ctx, jti, expiresAt); err != nil {
		return oautherr.Wrap(oautherr.ServerError, "failed to record revocation", err)
	}

	if s.cache != nil {
		if delErr := s.cache.Delete(ctx, token); delErr != nil && !errors.Is(delErr, store.ErrCacheUnavailable) {
			logger.Warnw("failed to invalidate introspection cache on revoke", "error", delErr)
		}
	}

	return nil
}
