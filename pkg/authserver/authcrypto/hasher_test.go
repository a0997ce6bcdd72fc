package authcrypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordHasher_RejectsLowCost(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordHasher(4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum required")
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(MinBcryptCost)
	require.NoError(t, err)

	hash, err := h.Hash("p@ss")
	require.NoError(t, err)
	assert.NotEqual(t, "p@ss", hash)

	assert.True(t, h.Verify(hash, "p@ss"))
	assert.False(t, h.Verify(hash, "wrong"))
}

func TestPasswordHasher_VerifyDummyDoesNotPanicOrBlock(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(MinBcryptCost)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		h.VerifyDummy("whatever")
	})
}

func TestPasswordHasher_DistinctSaltsPerCall(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(MinBcryptCost)
	require.NoError(t, err)

	hash1, err := h.Hash("p@ss")
	require.NoError(t, err)
	hash2, err := h.Hash("p@ss")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, h.Verify(hash1, "p@ss"))
	assert.True(t, h.Verify(hash2, "p@ss"))
}
