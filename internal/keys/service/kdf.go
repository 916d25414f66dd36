package service

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters. N/r/p match the interactive defaults the existing
// ciphertexts were produced with; changing them (or the salt) would orphan
// every envelope already at rest.
const (
	kdfSalt = "xchat-api-key-salt"
	kdfN    = 16384
	kdfR    = 8
	kdfP    = 1

	// KeySize is the derived symmetric key length in bytes (AES-256).
	KeySize = 32
)

// DeriveKey derives the 32-byte envelope encryption key from the operator
// secret using scrypt with a fixed salt. The derivation is deterministic:
// the same secret always yields the same key, so envelopes encrypted across
// process restarts remain decryptable.
//
// scrypt is memory-hard and intentionally expensive; callers should derive
// once at startup and reuse the key, not derive per request.
func DeriveKey(secret string) ([]byte, error) {
	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), kdfN, kdfR, kdfP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return key, nil
}
