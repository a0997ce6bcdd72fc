// Package grant implements the four token-issuing grants of section 4.8:
// Password, Authorization Code with PKCE, Refresh Token, and Client
// Credentials. Each grant is a plain function over an explicit Deps
// bundle; dispatch among them is a closed switch in Dispatch, not a
// registry of callables, per section 9's design guidance.
package grant

import (
	"time"

	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/authn"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

// Type enumerates the grant types this server supports. It is a closed
// set: Dispatch rejects anything else with unsupported_grant_type.
type Type string

// The grant types defined by section 2.
const (
	TypePassword          Type = "password"
	TypeAuthorizationCode Type = "authorization_code"
	TypeRefreshToken      Type = "refresh_token"
	TypeClientCredentials Type = "client_credentials"
)

// Params carries the already-parsed form values a token request supplies,
// regardless of which grant_type selects among them. Fields irrelevant to
// a given grant are simply left zero.
type Params struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scope        string
	Code         string
	RedirectURI  string
	CodeVerifier string
	RefreshToken string
}

// Result is the token pair (or single token, for client_credentials)
// produced by a successful grant.
type Result struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
	Scope        string
}

// Deps bundles the collaborators every grant function needs. It is
// constructed once by the token service façade and passed by the caller
// explicitly; there is no global container or service locator.
type Deps struct {
	Clients    *authn.ClientAuthenticator
	Users      *authn.UserAuthenticator
	ClientRepo store.ClientRepository
	Signer     *authcrypto.Signer
	AuthCodes  store.AuthCodeStore
	Revoked    store.RevokedTokenStore
	Now        func() time.Time
	NewJTI     func() string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
