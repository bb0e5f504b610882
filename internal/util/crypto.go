package util

import (
	"crypto/rand"
	"encoding/base64"
)

// stateTokenBytes is the entropy of a state token. 32 bytes gives 256 bits,
// well above the 128-bit minimum for an unguessable anti-forgery value.
const stateTokenBytes = 32

// CryptoRandomBytes generates cryptographically secure random bytes
func CryptoRandomBytes(length int64) ([]byte, error) {
	buf := make([]byte, length)
	_, err := rand.Read(buf)
	return buf, err
}

// NewStateToken generates a fresh random state token for OAuth CSRF protection.
// Tokens are single-use: issued by the authorize endpoint, consumed by the
// callback, never stored server-side.
func NewStateToken() (string, error) {
	bytes, err := CryptoRandomBytes(stateTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
