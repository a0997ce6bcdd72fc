package grant

import (
	"context"

	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
)

// Dispatch routes a token request to its grant function by an exhaustive
// switch over the closed set of supported grant types, per section 9:
// a tagged variant, not a registry of callable handlers. Any grantType
// outside the enumerated set is rejected with unsupported_grant_type.
func Dispatch(ctx context.Context, d Deps, grantType string, p Params) (Result, error) {
	switch Type(grantType) {
	case TypePassword:
		return Password(ctx, d, p)
	case TypeAuthorizationCode:
		return AuthorizationCode(ctx, d, p)
	case TypeRefreshToken:
		return RefreshToken(ctx, d, p)
	case TypeClientCredentials:
		return ClientCredentials(ctx, d, p)
	default:
		return Result{}, oautherr.New(oautherr.UnsupportedGrantType, "grant_type is not supported")
	}
}
