// Package client resolves credentials for playground users. It combines
// the remote encrypted store with the legacy plaintext file store and
// migrates old credentials to the service on first sight.
package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/allisson/xchat/internal/errors"
	"github.com/allisson/xchat/internal/identity"
	"github.com/allisson/xchat/internal/keys/domain"
)

// Source describes where a resolved credential came from.
type Source string

const (
	// SourceRemote means the credential came from the encrypted store.
	SourceRemote Source = "remote"
	// SourceMigrated means a legacy plaintext credential was found and
	// migrated to the encrypted store during this call.
	SourceMigrated Source = "migrated"
	// SourceAbsent means no credential exists anywhere.
	SourceAbsent Source = "absent"
	// SourceDegraded means the encrypted store was unreachable and the
	// result reflects only the legacy copy, which may be empty.
	SourceDegraded Source = "degraded"
)

// Resolution is the outcome of a credential lookup.
type Resolution struct {
	APIKey string
	Source Source
}

// Resolver loads, saves and clears the user's credential.
type Resolver struct {
	remote   RemoteStore
	local    LegacyStore
	identity IdentifierProvider
	logger   *slog.Logger
}

// NewResolver creates a resolver over the given stores.
func NewResolver(remote RemoteStore, local LegacyStore, identity IdentifierProvider, logger *slog.Logger) *Resolver {
	return &Resolver{remote: remote, local: local, identity: identity, logger: logger}
}

// NewDefaultResolver assembles the production resolver: an HTTP remote
// store on the key service base URL, the legacy plaintext file store in
// legacyDir, and a cached identifier provider over the given fingerprint
// source. A nil httpClient falls back to http.DefaultClient.
func NewDefaultResolver(baseURL, legacyDir string, fingerprint identity.FingerprintFunc, httpClient *http.Client, logger *slog.Logger) *Resolver {
	remote := NewHTTPRemoteStore(baseURL, httpClient)
	local := NewFileStore(legacyDir)
	provider := identity.NewProvider(fingerprint, logger)
	return NewResolver(remote, local, provider, logger)
}

// Load resolves the current credential. The remote store is authoritative;
// a remote miss falls through to the legacy copy and migrates it, while a
// remote failure degrades to whatever the legacy copy holds.
func (r *Resolver) Load(ctx context.Context) Resolution {
	userIdentifier := r.identity.GetUserIdentifier(ctx)

	apiKey, err := r.remote.Fetch(ctx, userIdentifier)
	if err == nil {
		return Resolution{APIKey: apiKey, Source: SourceRemote}
	}

	if errors.Is(err, domain.ErrKeyNotFound) {
		legacy := r.local.Get()
		if legacy == "" {
			return Resolution{Source: SourceAbsent}
		}
		r.migrate(ctx, userIdentifier, legacy)
		return Resolution{APIKey: legacy, Source: SourceMigrated}
	}

	r.logger.Warn("remote credential store unreachable, using legacy copy", "error", err)
	return Resolution{APIKey: r.local.Get(), Source: SourceDegraded}
}

// HasKey reports whether a credential is available, without transferring
// or decrypting it. A remote failure degrades to the legacy copy, so
// health checks keep working while the key service is down.
func (r *Resolver) HasKey(ctx context.Context) bool {
	userIdentifier := r.identity.GetUserIdentifier(ctx)

	exists, err := r.remote.Exists(ctx, userIdentifier)
	if err != nil {
		r.logger.Warn("remote credential store unreachable, checking legacy copy", "error", err)
		return r.local.Get() != ""
	}
	if exists {
		return true
	}
	return r.local.Get() != ""
}

// Save stores the credential in the remote store. Errors surface to the
// caller; the legacy store is never written.
func (r *Resolver) Save(ctx context.Context, apiKey string) error {
	userIdentifier := r.identity.GetUserIdentifier(ctx)
	return r.remote.Save(ctx, userIdentifier, apiKey)
}

// Clear removes the credential from the remote store and the legacy copy.
// A remote miss is not an error; the legacy copy is cleared regardless.
func (r *Resolver) Clear(ctx context.Context) error {
	userIdentifier := r.identity.GetUserIdentifier(ctx)

	remoteErr := r.remote.Delete(ctx, userIdentifier)
	if errors.Is(remoteErr, domain.ErrKeyNotFound) {
		remoteErr = nil
	}

	if err := r.local.Clear(); err != nil {
		r.logger.Warn("failed to clear legacy credential copy", "error", err)
		if remoteErr == nil {
			remoteErr = err
		}
	}
	return remoteErr
}

// migrate copies a legacy credential into the remote store. The legacy
// copy is removed only after the remote save succeeds, so a failed save
// leaves the credential recoverable on the next load.
func (r *Resolver) migrate(ctx context.Context, userIdentifier, apiKey string) {
	if err := r.remote.Save(ctx, userIdentifier, apiKey); err != nil {
		r.logger.Warn("legacy credential migration failed, keeping local copy", "error", err)
		return
	}
	if err := r.local.Clear(); err != nil {
		r.logger.Warn("failed to clear legacy credential after migration", "error", err)
		return
	}
	r.logger.Info("migrated legacy credential to encrypted storage")
}
