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

func TestMySQLAPIKeyRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLAPIKeyRepository(db)
	apiKey := &keysDomain.APIKey{
		ID:              uuid.Must(uuid.NewV7()),
		UserIdentifier:  "visitor-1",
		EncryptedAPIKey: "aa:bb:cc",
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_api_keys`)).
		WithArgs(apiKey.ID.String(), apiKey.UserIdentifier, apiKey.EncryptedAPIKey).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), apiKey)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAPIKeyRepository_GetByUserIdentifier(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLAPIKeyRepository(db)
		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		rows := sqlmock.NewRows(
			[]string{"id", "user_identifier", "encrypted_api_key", "created_at", "updated_at"},
		).AddRow(id.String(), "visitor-1", "aa:bb:cc", now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_identifier, encrypted_api_key`)).
			WithArgs("visitor-1").
			WillReturnRows(rows)

		apiKey, err := repo.GetByUserIdentifier(context.Background(), "visitor-1")
		require.NoError(t, err)
		assert.Equal(t, id, apiKey.ID)
		assert.Equal(t, "aa:bb:cc", apiKey.EncryptedAPIKey)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLAPIKeyRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_identifier, encrypted_api_key`)).
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_identifier", "encrypted_api_key", "created_at", "updated_at"},
			))

		_, err = repo.GetByUserIdentifier(context.Background(), "unknown")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMySQLAPIKeyRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLAPIKeyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_api_keys`)).
		WithArgs("visitor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
