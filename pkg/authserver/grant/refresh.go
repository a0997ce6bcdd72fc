package grant

import (
	"context"
	"time"

	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
)

// RefreshToken implements the Refresh Token grant of section 4.8: verify
// the presented refresh JWT, enforce ownership and revocation, optionally
// narrow scope, and rotate — issuing a new pair while revoking the
// presented token's jti. Rotation is mandatory; this core never reissues
// the same refresh token twice.
func RefreshToken(ctx context.Context, d Deps, p Params) (Result, error) {
	client, err := d.Clients.Authenticate(ctx, p.ClientID, p.ClientSecret, string(TypeRefreshToken))
	if err != nil {
		return Result{}, err
	}

	if p.RefreshToken == "" {
		return Result{}, oautherr.New(oautherr.InvalidRequest, "refresh_token is required")
	}

	verified, err := d.Signer.Verify(p.RefreshToken)
	if err != nil {
		return Result{}, invalidGrant("refresh token is invalid or expired")
	}
	claims := verified.Claims

	tokenType, _ := claims["token_type"].(string)
	if tokenType != string(kindRefresh) {
		return Result{}, invalidGrant("token is not a refresh token")
	}

	aud, ok := authcrypto.ClaimAudience(claims)
	if !ok || aud != client.ID {
		return Result{}, invalidGrant("refresh token was not issued to this client")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return Result{}, invalidGrant("refresh token is malformed")
	}
	revoked, err := d.Revoked.IsRevoked(ctx, jti)
	if err != nil {
		return Result{}, oautherr.Wrap(oautherr.ServerError, "failed to check token revocation", err)
	}
	if revoked {
		return Result{}, invalidGrant("refresh token has been revoked")
	}

	sub, _ := claims["sub"].(string)
	grantedScope, _ := claims["scope"].(string)

	scope := grantedScope
	if p.Scope != "" {
		if !scopeSubsetOf(p.Scope, grantedScope) {
			return Result{}, oautherr.New(oautherr.InvalidScope, "requested scope exceeds the refresh token's granted scope")
		}
		scope = JoinScope(ParseScope(p.Scope))
	}

	result, _, _, err := issuePair(d, sub, client.ID, scope, false)
	if err != nil {
		return Result{}, err
	}

	exp, _ := claims["exp"].(float64)
	expiresAt := time.Unix(int64(exp), 0)
	if exp == 0 {
		expiresAt = d.now().Add(d.RefreshTTL)
	}
	if err := d.Revoked.Revoke(ctx, jti, expiresAt); err != nil {
		return Result{}, oautherr.Wrap(oautherr.ServerError, "failed to revoke rotated refresh token", err)
	}

	return result, nil
}
