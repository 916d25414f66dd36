package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	keysDomain "github.com/allisson/xchat/internal/keys/domain"
)

const (
	// nonceSize is 16 bytes. GCM's standard nonce is 12 bytes, but the envelope
	// format at rest carries a 16-byte IV, so the cipher is built with
	// NewGCMWithNonceSize to stay compatible with stored data.
	nonceSize = 16
	tagSize   = 16

	envelopeDelimiter = ":"
	envelopeParts     = 3
)

// EnvelopeCipher implements the Cipher interface using AES-256-GCM.
//
// Envelopes are serialized as hex(iv):hex(tag):hex(ciphertext). A fresh random
// nonce is generated per encryption, so two encryptions of the same plaintext
// always produce different envelopes. Decryption fails closed: a malformed
// envelope or a tag that does not verify returns an error and never partial
// plaintext.
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines.
type EnvelopeCipher struct {
	aead cipher.AEAD
}

// NewEnvelopeCipher creates an envelope cipher from a 32-byte key.
func NewEnvelopeCipher(key []byte) (*EnvelopeCipher, error) {
	if len(key) != KeySize {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &EnvelopeCipher{aead: aead}, nil
}

// Encrypt seals plaintext into an iv:tag:ciphertext envelope with a fresh
// random 16-byte nonce.
func (e *EnvelopeCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the authentication tag to the ciphertext; the envelope
	// format stores them as separate fields.
	sealed := e.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, envelopeDelimiter), nil
}

// Decrypt opens an iv:tag:ciphertext envelope.
//
// Returns domain.ErrMalformedEnvelope if the envelope does not split into
// exactly three hex-encoded parts with a 16-byte IV, and
// domain.ErrAuthenticationFailed if the authentication tag does not verify
// (wrong key, tampered ciphertext, or corrupted envelope).
func (e *EnvelopeCipher) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, envelopeDelimiter)
	if len(parts) != envelopeParts {
		return "", keysDomain.ErrMalformedEnvelope
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return "", keysDomain.ErrMalformedEnvelope
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", keysDomain.ErrMalformedEnvelope
	}

	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", keysDomain.ErrMalformedEnvelope
	}

	plaintext, err := e.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", keysDomain.ErrAuthenticationFailed
	}

	return string(plaintext), nil
}
