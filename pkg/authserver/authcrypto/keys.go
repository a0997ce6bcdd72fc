package authcrypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
)

// MinRSAKeyBits is the minimum RSA modulus size this server accepts for
// token signing, per NIST SP 800-57.
const MinRSAKeyBits = 2048

// LoadSigningKey reads an RSA private key in PEM format (PKCS1 or PKCS8)
// from path and validates its size. RS256 is the only algorithm this core
// supports, so the key type is fixed to *rsa.PrivateKey.
func LoadSigningKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block from %s", path)
	}

	key, err := parseRSAPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	if key.N.BitLen() < MinRSAKeyBits {
		return nil, fmt.Errorf("RSA key is below minimum required size: got %d bits, want at least %d", key.N.BitLen(), MinRSAKeyBits)
	}

	return key, nil
}

func parseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}

	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PKCS8 key is not an RSA private key, got %T", parsed)
	}
	return rsaKey, nil
}

// DeriveKeyID derives a stable, deterministic kid from an RSA public key so
// the same key always produces the same identifier across restarts.
func DeriveKeyID(key *rsa.PrivateKey) string {
	sum := sha256.Sum256(key.PublicKey.N.Bytes())
	return base64.RawURLEncoding.EncodeToString(sum[:16])
}
