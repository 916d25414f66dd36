package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/xchat/internal/errors"
	keysDomain "github.com/allisson/xchat/internal/keys/domain"
)

const (
	scopeQuery = `SELECT set_current_user_identifier($1)`
)

func expectScope(mock sqlmock.Sqlmock, userIdentifier string) {
	mock.ExpectExec(regexp.QuoteMeta(scopeQuery)).
		WithArgs(userIdentifier).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestPostgreSQLAPIKeyRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)
	apiKey := &keysDomain.APIKey{
		ID:              uuid.Must(uuid.NewV7()),
		UserIdentifier:  "visitor-1",
		EncryptedAPIKey: "aa:bb:cc",
	}

	expectScope(mock, "visitor-1")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_api_keys`)).
		WithArgs(apiKey.ID, apiKey.UserIdentifier, apiKey.EncryptedAPIKey).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), apiKey)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAPIKeyRepository_GetByUserIdentifier(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		expectScope(mock, "visitor-1")
		rows := sqlmock.NewRows(
			[]string{"id", "user_identifier", "encrypted_api_key", "created_at", "updated_at"},
		).AddRow(id, "visitor-1", "aa:bb:cc", now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_identifier, encrypted_api_key`)).
			WithArgs("visitor-1").
			WillReturnRows(rows)

		apiKey, err := repo.GetByUserIdentifier(context.Background(), "visitor-1")
		require.NoError(t, err)
		assert.Equal(t, id, apiKey.ID)
		assert.Equal(t, "visitor-1", apiKey.UserIdentifier)
		assert.Equal(t, "aa:bb:cc", apiKey.EncryptedAPIKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)

		expectScope(mock, "unknown")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_identifier, encrypted_api_key`)).
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_identifier", "encrypted_api_key", "created_at", "updated_at"},
			))

		_, err = repo.GetByUserIdentifier(context.Background(), "unknown")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scope is set before the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)

		// Only the scope call is expected; a query without it must fail.
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_identifier, encrypted_api_key`)).
			WithArgs("visitor-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err = repo.GetByUserIdentifier(context.Background(), "visitor-1")
		assert.Error(t, err)
	})
}

func TestPostgreSQLAPIKeyRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)

	expectScope(mock, "visitor-1")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("visitor-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAPIKeyRepository_Delete(t *testing.T) {
	t.Run("row removed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)

		expectScope(mock, "visitor-1")
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_api_keys`)).
			WithArgs("visitor-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := repo.Delete(context.Background(), "visitor-1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("no row to remove", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)

		expectScope(mock, "unknown")
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_api_keys`)).
			WithArgs("unknown").
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := repo.Delete(context.Background(), "unknown")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
