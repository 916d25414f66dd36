package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/allisson/xchat/internal/errors"
	keysDomain "github.com/allisson/xchat/internal/keys/domain"
)

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
//
// MySQL has no row-level security; per-identifier scoping is enforced by the
// WHERE clause of every statement instead of a session setting.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository instance.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}

// Upsert inserts a credential record or overwrites the ciphertext for an
// existing identifier, refreshing updated_at.
func (m *MySQLAPIKeyRepository) Upsert(ctx context.Context, apiKey *keysDomain.APIKey) error {
	query := `INSERT INTO user_api_keys (id, user_identifier, encrypted_api_key)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				encrypted_api_key = VALUES(encrypted_api_key),
				updated_at = NOW()`

	_, err := m.db.ExecContext(ctx, query, apiKey.ID.String(), apiKey.UserIdentifier, apiKey.EncryptedAPIKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert api key")
	}
	return nil
}

// GetByUserIdentifier retrieves the credential record for an identifier.
// Returns apperrors.ErrNotFound when no record exists.
func (m *MySQLAPIKeyRepository) GetByUserIdentifier(
	ctx context.Context,
	userIdentifier string,
) (*keysDomain.APIKey, error) {
	query := `SELECT id, user_identifier, encrypted_api_key, created_at, updated_at
			  FROM user_api_keys
			  WHERE user_identifier = ?`

	var apiKey keysDomain.APIKey
	err := m.db.QueryRowContext(ctx, query, userIdentifier).Scan(
		&apiKey.ID,
		&apiKey.UserIdentifier,
		&apiKey.EncryptedAPIKey,
		&apiKey.CreatedAt,
		&apiKey.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}

	return &apiKey, nil
}

// Exists reports whether a credential record exists for the identifier.
func (m *MySQLAPIKeyRepository) Exists(ctx context.Context, userIdentifier string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_api_keys WHERE user_identifier = ?)`

	var exists bool
	if err := m.db.QueryRowContext(ctx, query, userIdentifier).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key existence")
	}

	return exists, nil
}

// Delete removes the credential record for an identifier.
// Returns whether a row was actually removed.
func (m *MySQLAPIKeyRepository) Delete(ctx context.Context, userIdentifier string) (bool, error) {
	query := `DELETE FROM user_api_keys WHERE user_identifier = ?`

	result, err := m.db.ExecContext(ctx, query, userIdentifier)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete api key")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read delete result")
	}

	return affected > 0, nil
}
