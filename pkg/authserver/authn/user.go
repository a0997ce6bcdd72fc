package authn

import (
	"context"
	"errors"

	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

// UserAuthenticator verifies resource-owner credentials for the password
// grant, per section 4.7. It never reveals whether a username exists: a
// missing user and a wrong password both produce invalid_grant.
type UserAuthenticator struct {
	users  store.UserRepository
	hasher *authcrypto.PasswordHasher
}

// NewUserAuthenticator constructs a UserAuthenticator.
func NewUserAuthenticator(users store.UserRepository, hasher *authcrypto.PasswordHasher) *UserAuthenticator {
	return &UserAuthenticator{users: users, hasher: hasher}
}

// Authenticate verifies username and password and returns the resolved
// user on success.
func (a *UserAuthenticator) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.hasher.VerifyDummy(password)
			return nil, oautherr.New(oautherr.InvalidGrant, "invalid resource owner credentials")
		}
		return nil, oautherr.Wrap(oautherr.ServerError, "failed to load user", err)
	}

	if !user.Active {
		a.hasher.VerifyDummy(password)
		return nil, oautherr.New(oautherr.InvalidGrant, "invalid resource owner credentials")
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		return nil, oautherr.New(oautherr.InvalidGrant, "invalid resource owner credentials")
	}

	return user, nil
}
