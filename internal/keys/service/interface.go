// Package service provides the cryptographic services for credential storage:
// scrypt key derivation and the AES-256-GCM envelope cipher.
package service

// Cipher defines the interface for envelope encryption of credential strings.
type Cipher interface {
	// Encrypt seals plaintext into a self-describing envelope string.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens an envelope string and returns the original plaintext.
	Decrypt(envelope string) (string, error)
}
