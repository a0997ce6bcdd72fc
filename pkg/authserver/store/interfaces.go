package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by the store contracts. Callers map these to the
// oautherr taxonomy; the store package itself knows nothing about the
// protocol.
var (
	// ErrNotFound is returned when a user, client, or authorization code
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by Put when a code already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyConsumed is returned by Consume when the code was already
	// used.
	ErrAlreadyConsumed = errors.New("already consumed")
	// ErrExpired is returned by Consume when the code's TTL has elapsed.
	ErrExpired = errors.New("expired")
	// ErrCacheUnavailable is returned by Cache implementations on
	// transport failure; callers MUST degrade to direct verification
	// rather than surface it, per section 5.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// UserRepository resolves users by username or ID. GetByUsername is the
// collaborator the User Authenticator depends on; GetByID lets
// introspection resolve the optional username field for user-bound
// tokens, which carry a user ID in "sub" rather than a username.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// ClientRepository resolves clients by ID, the collaborator the Client
// Authenticator depends on.
type ClientRepository interface {
	GetByID(ctx context.Context, clientID string) (*Client, error)
}

// AuthCodeStore implements the single-use authorization-code contract of
// section 4.4. Consume MUST be atomic under concurrent callers: at most one
// caller observes success for a given code.
type AuthCodeStore interface {
	Put(ctx context.Context, code *AuthorizationCode) error
	Get(ctx context.Context, code string) (*AuthorizationCode, error)
	Consume(ctx context.Context, code string) (*AuthorizationCode, error)
	// RecordIssuedJTIs appends jtis to the code's IssuedJTIs after a
	// successful consume+issue, so a subsequent replay can revoke them.
	RecordIssuedJTIs(ctx context.Context, code string, jtis []string) error
}

// RevokedTokenStore records permanently-invalidated jtis.
type RevokedTokenStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Cache is the read-through introspection cache contract of section 4.5.
// Implementations MAY be unavailable; on transport error they return
// ErrCacheUnavailable so callers degrade to direct verification instead of
// surfacing the failure.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
