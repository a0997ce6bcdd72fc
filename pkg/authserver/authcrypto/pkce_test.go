package authcrypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePKCEVerifier(t *testing.T) {
	t.Parallel()

	verifier, err := GeneratePKCEVerifier()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(verifier), MinVerifierLength)
	assert.LessOrEqual(t, len(verifier), MaxVerifierLength)
}

func TestComputePKCEChallenge_RFC7636Example(t *testing.T) {
	t.Parallel()

	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	expected := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

	assert.Equal(t, expected, ComputePKCEChallenge(verifier))
}

func TestVerifyPKCE(t *testing.T) {
	t.Parallel()

	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

	tests := []struct {
		name      string
		verifier  string
		challenge string
		method    string
		want      bool
	}{
		{"S256 match", verifier, challenge, MethodS256, true},
		{"S256 mismatch", "wrong-verifier-wrong-verifier-wrong-verif", challenge, MethodS256, false},
		{"plain match", "abc123", "abc123", MethodPlain, true},
		{"plain mismatch", "abc123", "abc124", MethodPlain, false},
		{"unknown method rejected", verifier, challenge, "unknown", false},
		{"method is case sensitive", verifier, challenge, "s256", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, VerifyPKCE(tt.verifier, tt.challenge, tt.method))
		})
	}
}
