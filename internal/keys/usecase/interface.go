// Package usecase implements business logic for credential storage: plaintext
// credentials are encrypted before persistence and decrypted on retrieval.
package usecase

import (
	"context"

	keysDomain "github.com/allisson/xchat/internal/keys/domain"
)

// APIKeyRepository defines the persistence contract for credential records.
type APIKeyRepository interface {
	// Upsert inserts or overwrites the record for the identifier.
	Upsert(ctx context.Context, apiKey *keysDomain.APIKey) error

	// GetByUserIdentifier retrieves the record, or errors.ErrNotFound.
	GetByUserIdentifier(ctx context.Context, userIdentifier string) (*keysDomain.APIKey, error)

	// Exists reports whether a record exists for the identifier.
	Exists(ctx context.Context, userIdentifier string) (bool, error)

	// Delete removes the record and reports whether a row was removed.
	Delete(ctx context.Context, userIdentifier string) (bool, error)
}

// APIKeyUseCase defines the operations of the credential store.
type APIKeyUseCase interface {
	// Store encrypts the plaintext credential and upserts it for the identifier.
	Store(ctx context.Context, userIdentifier, apiKey string) error

	// Fetch retrieves and decrypts the credential for the identifier.
	// Returns domain.ErrKeyNotFound when no credential is stored.
	Fetch(ctx context.Context, userIdentifier string) (string, error)

	// Exists reports whether a credential is stored for the identifier.
	Exists(ctx context.Context, userIdentifier string) (bool, error)

	// Delete removes the credential and reports whether a record was removed.
	Delete(ctx context.Context, userIdentifier string) (bool, error)
}
