package grant

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
)

// tokenKind distinguishes the two JWT claim shapes a server-issued token
// can take, per section 3's Token model.
type tokenKind string

const (
	kindAccess  tokenKind = "access"
	kindRefresh tokenKind = "refresh"
)

// issueJWT signs a single token of kind for subject sub, owned by
// clientID, carrying scope. It returns the compact JWT and the jti it
// minted, so the caller can record the jti for replay-hardening or
// rotation bookkeeping.
func issueJWT(d Deps, kind tokenKind, sub, clientID, scope string, ttl int64) (token, jti string, err error) {
	jti = d.NewJTI()
	now := d.now()
	claims := jwt.MapClaims{
		"sub":        sub,
		"aud":        clientID,
		"client_id":  clientID,
		"scope":      scope,
		"token_type": string(kind),
		"jti":        jti,
		"iat":        now.Unix(),
		"exp":        now.Unix() + ttl,
	}
	signed, err := d.Signer.Sign(claims)
	if err != nil {
		return "", "", oautherr.Wrap(oautherr.ServerError, "failed to issue token", err)
	}
	return signed, jti, nil
}

// issuePair signs an access token and, unless skipRefresh, a refresh
// token for the same subject/client/scope, returning the jtis minted so
// callers can record them against an authorization code.
func issuePair(d Deps, sub, clientID, scope string, skipRefresh bool) (result Result, accessJTI, refreshJTI string, err error) {
	accessToken, accessJTI, err := issueJWT(d, kindAccess, sub, clientID, scope, int64(d.AccessTTL.Seconds()))
	if err != nil {
		return Result{}, "", "", err
	}

	result = Result{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(d.AccessTTL.Seconds()),
		Scope:       scope,
	}

	if skipRefresh {
		return result, accessJTI, "", nil
	}

	refreshToken, refreshJTI, err := issueJWT(d, kindRefresh, sub, clientID, scope, int64(d.RefreshTTL.Seconds()))
	if err != nil {
		return Result{}, "", "", err
	}
	result.RefreshToken = refreshToken
	return result, accessJTI, refreshJTI, nil
}

func invalidGrant(format string, args ...any) error {
	return oautherr.New(oautherr.InvalidGrant, fmt.Sprintf(format, args...))
}
