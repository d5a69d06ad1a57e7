// Package secrets turns user-supplied secrets into symmetric key material.
//
// Two paths exist: DeriveKey stretches a passphrase with PBKDF2 for the
// password-protected cipher mode, and ParseLegacyKey produces the fixed-length
// raw keys used by the legacy modes.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLength is the number of random salt bytes prefixed to
	// password-derived cipher blobs.
	SaltLength = 16

	// Iterations is the PBKDF2 iteration count. Changing it breaks
	// decryption of previously produced blobs.
	Iterations = 100_000

	// DerivedKeyLength is the key size for the password-derived mode (AES-256).
	DerivedKeyLength = 32

	// LegacyKeyLength is the key size for the legacy-keyed modes.
	LegacyKeyLength = 16
)

// DeriveKey stretches passphrase into a keyLen-byte key using
// PBKDF2-HMAC-SHA256. If salt is nil a fresh random salt is generated; on
// decryption the salt recovered from the blob prefix must be passed in so the
// derivation reproduces the original key. The returned salt is either the
// generated one or the caller-provided one, verbatim.
func DeriveKey(passphrase string, salt []byte, keyLen int) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, SaltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, fmt.Errorf("secrets: generate salt: %w", err)
		}
	}

	key := pbkdf2.Key([]byte(passphrase), salt, Iterations, keyLen, sha256.New)
	return salt, key, nil
}

// ParseLegacyKey converts an arbitrary string into a key of exactly
// requiredLen bytes: UTF-8 encode, right-pad with zero bytes if short,
// truncate if long. It never fails; an empty input yields an all-zero key,
// which the legacy modes knowingly accept.
func ParseLegacyKey(text string, requiredLen int) []byte {
	key := make([]byte, requiredLen)
	copy(key, text)
	return key
}
