package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/xchat/internal/errors"
	"github.com/allisson/xchat/internal/keys/domain"
	"github.com/allisson/xchat/internal/keys/http/dto"
)

func TestHTTPRemoteStore_Fetch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/keys", r.URL.Path)
			assert.Equal(t, "visitor-1", r.URL.Query().Get("userIdentifier"))
			_ = json.NewEncoder(w).Encode(dto.GetAPIKeyResponse{APIKey: "xai-1234567890"})
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		apiKey, err := store.Fetch(context.Background(), "visitor-1")
		require.NoError(t, err)
		assert.Equal(t, "xai-1234567890", apiKey)
	})

	t.Run("Miss", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		_, err := store.Fetch(context.Background(), "visitor-1")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		_, err := store.Fetch(context.Background(), "visitor-1")
		assert.ErrorIs(t, err, errors.ErrUnavailable)
		assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		_, err := store.Fetch(context.Background(), "visitor-1")
		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})
}

func TestHTTPRemoteStore_Save(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/keys", r.URL.Path)

			var req dto.StoreAPIKeyRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "visitor-1", req.UserIdentifier)
			assert.Equal(t, "xai-1234567890", req.APIKey)

			_ = json.NewEncoder(w).Encode(dto.StoreAPIKeyResponse{Success: true})
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		assert.NoError(t, store.Save(context.Background(), "visitor-1", "xai-1234567890"))
	})

	t.Run("Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		err := store.Save(context.Background(), "visitor-1", "short")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		err := store.Save(context.Background(), "visitor-1", "xai-1234567890")
		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})
}

func TestHTTPRemoteStore_Exists(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			assert.Equal(t, "/v1/keys", r.URL.Path)
			assert.Equal(t, "visitor-1", r.URL.Query().Get("userIdentifier"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		exists, err := store.Exists(context.Background(), "visitor-1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Miss", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		exists, err := store.Exists(context.Background(), "visitor-1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		_, err := store.Exists(context.Background(), "visitor-1")
		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})
}

func TestHTTPRemoteStore_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "visitor-1", r.URL.Query().Get("userIdentifier"))
			_ = json.NewEncoder(w).Encode(dto.StoreAPIKeyResponse{Success: true})
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		assert.NoError(t, store.Delete(context.Background(), "visitor-1"))
	})

	t.Run("Miss", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		store := NewHTTPRemoteStore(server.URL, nil)
		err := store.Delete(context.Background(), "visitor-1")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})
}
