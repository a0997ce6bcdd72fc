package authcrypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the minimum bcrypt cost factor this server accepts,
// per section 4.2.
const MinBcryptCost = 12

// dummySecret is hashed once per PasswordHasher so a not-found identity
// lookup can still pay a real bcrypt comparison, closing the timing gap
// between "no such user" and "wrong password".
const dummySecret = "identity-service-timing-equalizer"

// PasswordHasher hashes and verifies credentials with bcrypt. The zero
// value is not usable; construct with NewPasswordHasher.
type PasswordHasher struct {
	cost      int
	dummyHash string
}

// NewPasswordHasher returns a PasswordHasher using cost. Costs below
// MinBcryptCost are rejected.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < MinBcryptCost {
		return nil, fmt.Errorf("bcrypt cost %d is below minimum required %d", cost, MinBcryptCost)
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummySecret), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to precompute dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummyHash: string(dummyHash)}, nil
}

// Hash derives an opaque bcrypt hash from password. The plaintext password
// is never retained or logged.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. It returns only a boolean;
// bcrypt's comparison is itself constant-time with respect to the derived
// digest, and its cost factor bounds the latency deliberately.
func (h *PasswordHasher) Verify(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyDummy runs a bcrypt comparison against a fixed internal hash and
// discards the result. Callers use it on a not-found identity path so that
// rejecting an unknown username or client ID costs the same KDF work as
// rejecting a wrong password, per the equal-latency requirement of
// section 8.
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummyHash), []byte(password))
}
