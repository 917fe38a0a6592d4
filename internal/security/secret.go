package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	ErrNotConfigured  = errors.New("webhook secret not configured")
	ErrSecretMismatch = errors.New("webhook secret mismatch")
)

// SharedSecretVerifier checks a provider's shared-secret header.
// Only a digest of the secret is kept; both sides are hashed before the
// constant-time compare so length differences do not leak.
type SharedSecretVerifier struct {
	digest     [sha256.Size]byte
	configured bool
}

func NewSharedSecretVerifier(secret string) *SharedSecretVerifier {
	v := &SharedSecretVerifier{}
	if strings.TrimSpace(secret) == "" {
		return v
	}
	v.digest = sha256.Sum256([]byte(secret))
	v.configured = true
	return v
}

func (v *SharedSecretVerifier) Configured() bool { return v != nil && v.configured }

// Verify returns ErrNotConfigured when no secret is set, and
// ErrSecretMismatch for a missing or wrong presented value.
func (v *SharedSecretVerifier) Verify(presented string) error {
	if !v.Configured() {
		return ErrNotConfigured
	}
	if presented == "" {
		return ErrSecretMismatch
	}
	got := sha256.Sum256([]byte(presented))
	if subtle.ConstantTimeCompare(got[:], v.digest[:]) != 1 {
		return ErrSecretMismatch
	}
	return nil
}
