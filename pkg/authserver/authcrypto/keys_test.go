package authcrypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePEM(t *testing.T, dir, pemType string, der []byte) string {
	t.Helper()
	path := filepath.Join(dir, "key.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der})
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadSigningKey(t *testing.T) {
	t.Parallel()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	smallKey, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string) string
		wantErr string
	}{
		{
			name: "PKCS1",
			setup: func(_ *testing.T, dir string) string {
				return writePEM(t, dir, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(rsaKey))
			},
		},
		{
			name: "PKCS8",
			setup: func(_ *testing.T, dir string) string {
				der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
				require.NoError(t, err)
				return writePEM(t, dir, "PRIVATE KEY", der)
			},
		},
		{
			name: "below minimum size",
			setup: func(_ *testing.T, dir string) string {
				return writePEM(t, dir, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(smallKey))
			},
			wantErr: "below minimum required",
		},
		{
			name: "invalid PEM",
			setup: func(_ *testing.T, dir string) string {
				path := filepath.Join(dir, "key.pem")
				require.NoError(t, os.WriteFile(path, []byte("not valid PEM"), 0o600))
				return path
			},
			wantErr: "failed to decode PEM block",
		},
		{
			name: "non-existent file",
			setup: func(_ *testing.T, _ string) string {
				return "/nonexistent/key.pem"
			},
			wantErr: "failed to read signing key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := tt.setup(t, t.TempDir())

			key, err := LoadSigningKey(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, key)
		})
	}
}

func TestDeriveKeyID_StableAndUnique(t *testing.T) {
	t.Parallel()

	key1, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key2, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	id1 := DeriveKeyID(key1)
	id1Again := DeriveKeyID(key1)
	id2 := DeriveKeyID(key2)

	assert.NotEmpty(t, id1)
	assert.Equal(t, id1, id1Again)
	assert.NotEqual(t, id1, id2)
}
