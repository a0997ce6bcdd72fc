package grant

import (
	"context"
	"errors"

	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

// AuthorizationCode implements the Authorization Code grant of
// section 4.8, including PKCE verification and the RFC 6749 §4.1.2 replay
// recommendation: a code presented again after a successful consumption
// revokes every token previously issued from it.
func AuthorizationCode(ctx context.Context, d Deps, p Params) (Result, error) {
	client, err := d.Clients.Authenticate(ctx, p.ClientID, p.ClientSecret, string(TypeAuthorizationCode))
	if err != nil {
		return Result{}, err
	}

	if p.Code == "" || p.RedirectURI == "" || p.CodeVerifier == "" {
		return Result{}, oautherr.New(oautherr.InvalidRequest, "code, redirect_uri, and code_verifier are required")
	}

	record, err := d.AuthCodes.Consume(ctx, p.Code)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyConsumed) {
			revokeIssuedJTIs(ctx, d, p.Code)
		}
		return Result{}, invalidGrant("authorization code is invalid, expired, or already used")
	}

	if record.ClientID != client.ID {
		return Result{}, invalidGrant("authorization code was not issued to this client")
	}
	if record.RedirectURI != p.RedirectURI {
		return Result{}, invalidGrant("redirect_uri does not match the value presented at authorization time")
	}
	if !authcrypto.VerifyPKCE(p.CodeVerifier, record.CodeChallenge, record.CodeChallengeMethod) {
		return Result{}, invalidGrant("code_verifier does not match the authorization request's challenge")
	}

	result, accessJTI, refreshJTI, err := issuePair(d, record.UserID, client.ID, record.Scope, false)
	if err != nil {
		return Result{}, err
	}

	_ = d.AuthCodes.RecordIssuedJTIs(ctx, p.Code, []string{accessJTI, refreshJTI})
	return result, nil
}

// revokeIssuedJTIs revokes every token previously issued from code, on a
// best-effort basis: a replayed code is already being refused, so a
// failure here must not change the response.
func revokeIssuedJTIs(ctx context.Context, d Deps, code string) {
	record, err := d.AuthCodes.Get(ctx, code)
	if err != nil {
		return
	}
	for _, jti := range record.IssuedJTIs {
		_ = d.Revoked.Revoke(ctx, jti, d.now().Add(d.RefreshTTL))
	}
}
