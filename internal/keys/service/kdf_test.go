package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	t.Run("derives 32-byte key", func(t *testing.T) {
		key, err := DeriveKey("operator-secret")
		require.NoError(t, err)
		assert.Len(t, key, KeySize)
	})

	t.Run("deterministic for same secret", func(t *testing.T) {
		first, err := DeriveKey("operator-secret")
		require.NoError(t, err)

		second, err := DeriveKey("operator-secret")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("different secrets yield different keys", func(t *testing.T) {
		first, err := DeriveKey("operator-secret")
		require.NoError(t, err)

		second, err := DeriveKey("another-secret")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestDeriveKeyFeedsCipher(t *testing.T) {
	key, err := DeriveKey("operator-secret")
	require.NoError(t, err)

	c, err := NewEnvelopeCipher(key)
	require.NoError(t, err)

	envelope, err := c.Encrypt("xai-credential")
	require.NoError(t, err)

	// A cipher built from the same secret must open the envelope.
	sameKey, err := DeriveKey("operator-secret")
	require.NoError(t, err)
	same, err := NewEnvelopeCipher(sameKey)
	require.NoError(t, err)

	plaintext, err := same.Decrypt(envelope)
	require.NoError(t, err)
	assert.Equal(t, "xai-credential", plaintext)
}
