package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/xchat/internal/errors"
	keysDomain "github.com/allisson/xchat/internal/keys/domain"
	keysService "github.com/allisson/xchat/internal/keys/service"
)

// apiKeyUseCase implements the APIKeyUseCase interface.
//
// Persistence and crypto failures are logged with full detail and re-signaled
// as the generic domain.ErrStorageFailure so internals never reach callers.
// A fetch miss is reported as domain.ErrKeyNotFound, which is control flow for
// the client facade, not a failure.
type apiKeyUseCase struct {
	repo   APIKeyRepository
	cipher keysService.Cipher
	logger *slog.Logger
}

// NewAPIKeyUseCase creates an APIKeyUseCase with the given repository and cipher.
func NewAPIKeyUseCase(
	repo APIKeyRepository,
	cipher keysService.Cipher,
	logger *slog.Logger,
) APIKeyUseCase {
	return &apiKeyUseCase{
		repo:   repo,
		cipher: cipher,
		logger: logger,
	}
}

// Store encrypts the plaintext credential and upserts it for the identifier.
func (u *apiKeyUseCase) Store(ctx context.Context, userIdentifier, apiKey string) error {
	envelope, err := u.cipher.Encrypt(apiKey)
	if err != nil {
		u.logger.Error("failed to encrypt api key", slog.Any("error", err))
		return keysDomain.ErrStorageFailure
	}

	record := &keysDomain.APIKey{
		ID:              uuid.Must(uuid.NewV7()),
		UserIdentifier:  userIdentifier,
		EncryptedAPIKey: envelope,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := u.repo.Upsert(ctx, record); err != nil {
		u.logger.Error("failed to store api key",
			slog.String("user_identifier", userIdentifier),
			slog.Any("error", err),
		)
		return keysDomain.ErrStorageFailure
	}

	return nil
}

// Fetch retrieves and decrypts the credential for the identifier.
func (u *apiKeyUseCase) Fetch(ctx context.Context, userIdentifier string) (string, error) {
	record, err := u.repo.GetByUserIdentifier(ctx, userIdentifier)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return "", keysDomain.ErrKeyNotFound
		}
		u.logger.Error("failed to fetch api key",
			slog.String("user_identifier", userIdentifier),
			slog.Any("error", err),
		)
		return "", keysDomain.ErrStorageFailure
	}

	plaintext, err := u.cipher.Decrypt(record.EncryptedAPIKey)
	if err != nil {
		// Fails closed: tampered or undecryptable envelopes are reported as a
		// generic failure, never as partial plaintext.
		u.logger.Error("failed to decrypt api key",
			slog.String("user_identifier", userIdentifier),
			slog.Any("error", err),
		)
		return "", keysDomain.ErrStorageFailure
	}

	return plaintext, nil
}

// Exists reports whether a credential is stored for the identifier.
func (u *apiKeyUseCase) Exists(ctx context.Context, userIdentifier string) (bool, error) {
	exists, err := u.repo.Exists(ctx, userIdentifier)
	if err != nil {
		u.logger.Error("failed to check api key existence",
			slog.String("user_identifier", userIdentifier),
			slog.Any("error", err),
		)
		return false, keysDomain.ErrStorageFailure
	}
	return exists, nil
}

// Delete removes the credential and reports whether a record was removed.
func (u *apiKeyUseCase) Delete(ctx context.Context, userIdentifier string) (bool, error) {
	deleted, err := u.repo.Delete(ctx, userIdentifier)
	if err != nil {
		u.logger.Error("failed to delete api key",
			slog.String("user_identifier", userIdentifier),
			slog.Any("error", err),
		)
		return false, keysDomain.ErrStorageFailure
	}
	return deleted, nil
}
