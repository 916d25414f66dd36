// Package repository implements credential persistence for PostgreSQL and MySQL.
// The PostgreSQL implementation scopes every statement with a row-level-security
// session variable; MySQL scopes by predicate since it has no RLS equivalent.
package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/allisson/xchat/internal/errors"
	keysDomain "github.com/allisson/xchat/internal/keys/domain"
)

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
//
// Row visibility is enforced by RLS policies on user_api_keys keyed off the
// app.current_user_identifier session setting. Each operation pins a single
// connection, establishes the setting via set_current_user_identifier, and runs
// the statement on the same session. The scope is never cached across
// operations: two calls may belong to different callers.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository instance.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}

// withScopedConn runs fn on a dedicated connection after binding the RLS scope
// to the given user identifier.
func (p *PostgreSQLAPIKeyRepository) withScopedConn(
	ctx context.Context,
	userIdentifier string,
	fn func(conn *sql.Conn) error,
) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to acquire connection")
	}
	defer func() { _ = conn.Close() }()

	query := `SELECT set_current_user_identifier($1)`
	if _, err := conn.ExecContext(ctx, query, userIdentifier); err != nil {
		return apperrors.Wrap(err, "failed to set user identifier scope")
	}

	return fn(conn)
}

// Upsert inserts a credential record or overwrites the ciphertext for an
// existing identifier, refreshing updated_at.
func (p *PostgreSQLAPIKeyRepository) Upsert(ctx context.Context, apiKey *keysDomain.APIKey) error {
	return p.withScopedConn(ctx, apiKey.UserIdentifier, func(conn *sql.Conn) error {
		query := `INSERT INTO user_api_keys (id, user_identifier, encrypted_api_key)
				  VALUES ($1, $2, $3)
				  ON CONFLICT (user_identifier)
				  DO UPDATE SET
					encrypted_api_key = EXCLUDED.encrypted_api_key,
					updated_at = NOW()`

		_, err := conn.ExecContext(ctx, query, apiKey.ID, apiKey.UserIdentifier, apiKey.EncryptedAPIKey)
		if err != nil {
			return apperrors.Wrap(err, "failed to upsert api key")
		}
		return nil
	})
}

// GetByUserIdentifier retrieves the credential record for an identifier.
// Returns apperrors.ErrNotFound when no record exists.
func (p *PostgreSQLAPIKeyRepository) GetByUserIdentifier(
	ctx context.Context,
	userIdentifier string,
) (*keysDomain.APIKey, error) {
	var apiKey keysDomain.APIKey

	err := p.withScopedConn(ctx, userIdentifier, func(conn *sql.Conn) error {
		query := `SELECT id, user_identifier, encrypted_api_key, created_at, updated_at
				  FROM user_api_keys
				  WHERE user_identifier = $1`

		err := conn.QueryRowContext(ctx, query, userIdentifier).Scan(
			&apiKey.ID,
			&apiKey.UserIdentifier,
			&apiKey.EncryptedAPIKey,
			&apiKey.CreatedAt,
			&apiKey.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return apperrors.ErrNotFound
			}
			return apperrors.Wrap(err, "failed to get api key")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &apiKey, nil
}

// Exists reports whether a credential record exists for the identifier.
func (p *PostgreSQLAPIKeyRepository) Exists(
	ctx context.Context,
	userIdentifier string,
) (bool, error) {
	var exists bool

	err := p.withScopedConn(ctx, userIdentifier, func(conn *sql.Conn) error {
		query := `SELECT EXISTS (SELECT 1 FROM user_api_keys WHERE user_identifier = $1)`

		if err := conn.QueryRowContext(ctx, query, userIdentifier).Scan(&exists); err != nil {
			return apperrors.Wrap(err, "failed to check api key existence")
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Delete removes the credential record for an identifier.
// Returns whether a row was actually removed.
func (p *PostgreSQLAPIKeyRepository) Delete(
	ctx context.Context,
	userIdentifier string,
) (bool, error) {
	var deleted bool

	err := p.withScopedConn(ctx, userIdentifier, func(conn *sql.Conn) error {
		query := `DELETE FROM user_api_keys WHERE user_identifier = $1`

		result, err := conn.ExecContext(ctx, query, userIdentifier)
		if err != nil {
			return apperrors.Wrap(err, "failed to delete api key")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return apperrors.Wrap(err, "failed to read delete result")
		}

		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}
