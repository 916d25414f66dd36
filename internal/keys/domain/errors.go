package domain

import (
	"github.com/allisson/xchat/internal/errors"
)

// Credential storage and encryption error definitions.
var (
	// ErrKeyNotFound indicates no credential is stored for the visitor identifier.
	// This is a control-flow signal for the client facade, not a failure.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrStorageFailure indicates the persistence layer failed (connectivity,
	// policy violation). Driver detail is logged at the boundary, never exposed.
	ErrStorageFailure = errors.Wrap(errors.ErrUnavailable, "api key storage failure")

	// ErrMalformedEnvelope indicates the stored ciphertext does not have the
	// expected iv:tag:ciphertext shape or contains invalid hex.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed encryption envelope")

	// ErrAuthenticationFailed indicates the envelope authentication tag did not
	// verify: wrong key, tampered ciphertext, or corrupted envelope. Decryption
	// fails closed and never returns partial plaintext.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "envelope authentication failed")
)
