// Package authn implements the Client Authenticator and User Authenticator
// collaborators of sections 4.6 and 4.7: resolving and verifying the
// credentials a grant handler needs before it does anything protocol
// specific.
package authn

import (
	"context"
	"errors"

	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

// ClientAuthenticator resolves a client and verifies its secret and
// grant-type allowance, per section 4.6. It depends only on the
// ClientRepository contract and a PasswordHasher; it is not wired to any
// global container.
type ClientAuthenticator struct {
	clients store.ClientRepository
	hasher  *authcrypto.PasswordHasher
}

// NewClientAuthenticator constructs a ClientAuthenticator.
func NewClientAuthenticator(clients store.ClientRepository, hasher *authcrypto.PasswordHasher) *ClientAuthenticator {
	return &ClientAuthenticator{clients: clients, hasher: hasher}
}

// Authenticate loads clientID, verifies clientSecret, and checks that the
// client allows grantType. Every credential failure collapses to
// invalid_client, and a disallowed grant to unauthorized_client, per
// section 4.6; it never distinguishes "no such client" from "bad secret".
// A repository failure other than not-found is returned as server_error.
func (a *ClientAuthenticator) Authenticate(ctx context.Context, clientID, clientSecret, grantType string) (*store.Client, error) {
	client, err := a.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.hasher.VerifyDummy(clientSecret)
			return nil, oautherr.New(oautherr.InvalidClient, "client authentication failed")
		}
		return nil, oautherr.Wrap(oautherr.ServerError, "failed to load client", err)
	}

	if !client.Active {
		a.hasher.VerifyDummy(clientSecret)
		return nil, oautherr.New(oautherr.InvalidClient, "client authentication failed")
	}

	if !a.hasher.Verify(client.SecretHash, clientSecret) {
		return nil, oautherr.New(oautherr.InvalidClient, "client authentication failed")
	}

	if !client.AllowsGrant(grantType) {
		return nil, oautherr.New(oautherr.UnauthorizedClient, "client is not authorized for this grant type")
	}

	return client, nil
}

// AuthenticateBasic verifies clientID and clientSecret without regard to
// any grant type, the form of client authentication the introspection and
// revocation endpoints require per section 6.1.
func (a *ClientAuthenticator) AuthenticateBasic(ctx context.Context, clientID, clientSecret string) (*store.Client, error) {
	client, err := a.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.hasher.VerifyDummy(clientSecret)
			return nil, oautherr.New(oautherr.InvalidClient, "client authentication failed")
		}
		return nil, oautherr.Wrap(oautherr.ServerError, "failed to load client", err)
	}

	if !client.Active {
		a.hasher.VerifyDummy(clientSecret)
		return nil, oautherr.New(oautherr.InvalidClient, "client authentication failed")
	}

	if !a.hasher.Verify(client.SecretHash, clientSecret) {
		return nil, oautherr.New(oautherr.InvalidClient, "client authentication failed")
	}

	return client, nil
}
