// Package domain defines the core domain models for per-visitor credential storage.
// Each browser/device is identified by an opaque visitor identifier and owns at
// most one stored credential, encrypted at rest.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents a stored upstream credential for a single visitor.
type APIKey struct {
	// ID is the unique identifier for the record.
	ID uuid.UUID
	// UserIdentifier is the opaque, best-effort-stable visitor identifier.
	// There is at most one record per identifier.
	UserIdentifier string
	// EncryptedAPIKey is the serialized encryption envelope (iv:tag:ciphertext, hex).
	EncryptedAPIKey string
	// CreatedAt is the UTC timestamp when the record was first stored.
	CreatedAt time.Time
	// UpdatedAt is refreshed on every overwrite of the ciphertext.
	UpdatedAt time.Time
}
