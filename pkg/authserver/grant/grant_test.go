package grant

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jedi-knights/identity-service/pkg/authserver/authcrypto"
	"github.com/jedi-knights/identity-service/pkg/authserver/authn"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

type harness struct {
	deps    Deps
	clients *store.MemoryClientRepository
	users   *store.MemoryUserRepository
	codes   *store.MemoryAuthCodeStore
	revoked *store.MemoryRevokedTokenStore
	hasher  *authcrypto.PasswordHasher
	signer  *authcrypto.Signer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := authcrypto.NewSigner(key, "kid-1", "https://auth.example.com", 0)
	require.NoError(t, err)

	hasher, err := authcrypto.NewPasswordHasher(12)
	require.NoError(t, err)

	clients := store.NewMemoryClientRepository()
	users := store.NewMemoryUserRepository()
	codes := store.NewMemoryAuthCodeStore()
	revoked := store.NewMemoryRevokedTokenStore()

	deps := Deps{
		Clients:    authn.NewClientAuthenticator(clients, hasher),
		Users:      authn.NewUserAuthenticator(users, hasher),
		ClientRepo: clients,
		Signer:     signer,
		AuthCodes:  codes,
		Revoked:    revoked,
		Now:        time.Now,
		NewJTI:     func() string { return uuid.NewString() },
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	return &harness{deps: deps, clients: clients, users: users, codes: codes, revoked: revoked, hasher: hasher, signer: signer}
}

func (h *harness) addClient(t *testing.T, id, secret string, grants []string, scopes []string, defaultScope string) *store.Client {
	t.Helper()
	hash, err := h.hasher.Hash(secret)
	require.NoError(t, err)

	grantSet := make(map[string]bool)
	for _, g := range grants {
		grantSet[g] = true
	}
	scopeSet := make(map[string]bool)
	for _, s := range scopes {
		scopeSet[s] = true
	}

	client := &store.Client{
		ID:           id,
		SecretHash:   hash,
		Active:       true,
		GrantTypes:   grantSet,
		Scopes:       scopeSet,
		DefaultScope: defaultScope,
		RedirectURIs: []string{"https://client.example.com/callback"},
	}
	h.clients.Put(client)
	return client
}

func (h *harness) addUser(t *testing.T, id, username, password string) *store.User {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	require.NoError(t, err)
	user := &store.User{ID: id, Username: username, PasswordHash: hash, Active: true}
	h.users.Put(user)
	return user
}
