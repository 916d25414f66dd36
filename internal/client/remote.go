package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/allisson/xchat/internal/errors"
	"github.com/allisson/xchat/internal/keys/domain"
	"github.com/allisson/xchat/internal/keys/http/dto"
)

// HTTPRemoteStore talks to the key service over HTTP.
type HTTPRemoteStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRemoteStore creates a store pointed at the key service base URL.
// A nil httpClient falls back to http.DefaultClient.
func NewHTTPRemoteStore(baseURL string, httpClient *http.Client) *HTTPRemoteStore {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRemoteStore{baseURL: baseURL, httpClient: httpClient}
}

// Fetch retrieves the credential for the given identifier. A miss is
// reported as domain.ErrKeyNotFound so callers can tell it apart from a
// service failure.
func (s *HTTPRemoteStore) Fetch(ctx context.Context, userIdentifier string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/keys?userIdentifier=%s", s.baseURL, url.QueryEscape(userIdentifier))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, "create fetch request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", domain.ErrKeyNotFound
	case resp.StatusCode != http.StatusOK:
		return "", errors.Wrap(errors.ErrUnavailable, fmt.Sprintf("fetch returned status %d", resp.StatusCode))
	}

	var response dto.GetAPIKeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", errors.Wrap(errors.ErrUnavailable, "decode fetch response")
	}
	return response.APIKey, nil
}

// Save stores the credential for the given identifier.
func (s *HTTPRemoteStore) Save(ctx context.Context, userIdentifier, apiKey string) error {
	body, err := json.Marshal(dto.StoreAPIKeyRequest{
		UserIdentifier: userIdentifier,
		APIKey:         apiKey,
	})
	if err != nil {
		return errors.Wrap(err, "encode save request")
	}

	endpoint := s.baseURL + "/v1/keys"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create save request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("save returned status %d", resp.StatusCode))
	default:
		return errors.Wrap(errors.ErrUnavailable, fmt.Sprintf("save returned status %d", resp.StatusCode))
	}
}

// Exists reports whether a credential is stored for the given identifier.
// The credential itself never crosses the wire.
func (s *HTTPRemoteStore) Exists(ctx context.Context, userIdentifier string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/keys?userIdentifier=%s", s.baseURL, url.QueryEscape(userIdentifier))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return false, errors.Wrap(err, "create exists request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, errors.Wrap(errors.ErrUnavailable, fmt.Sprintf("exists returned status %d", resp.StatusCode))
	}
}

// Delete removes the credential for the given identifier. A miss is
// reported as domain.ErrKeyNotFound.
func (s *HTTPRemoteStore) Delete(ctx context.Context, userIdentifier string) error {
	endpoint := fmt.Sprintf("%s/v1/keys?userIdentifier=%s", s.baseURL, url.QueryEscape(userIdentifier))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "create delete request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrKeyNotFound
	default:
		return errors.Wrap(errors.ErrUnavailable, fmt.Sprintf("delete returned status %d", resp.StatusCode))
	}
}
