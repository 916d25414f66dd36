// Package identity resolves a stable identifier for the current user.
//
// The identifier comes from an injectable fingerprint source. The first
// successful value is cached for the lifetime of the process. When the
// source fails, a random session token is generated instead and reused
// for subsequent calls, so callers always get a usable identifier.
package identity

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const fallbackPrefix = "fallback_"

// FingerprintFunc produces a device fingerprint for the current user.
type FingerprintFunc func(ctx context.Context) (string, error)

// Provider resolves and caches the user identifier.
type Provider struct {
	fingerprint FingerprintFunc
	logger      *slog.Logger
	group       singleflight.Group

	mu       sync.Mutex
	cached   string
	fallback string
}

// NewProvider creates a provider backed by the given fingerprint source.
func NewProvider(fingerprint FingerprintFunc, logger *slog.Logger) *Provider {
	return &Provider{fingerprint: fingerprint, logger: logger}
}

// GetUserIdentifier returns the identifier for the current user. It never
// returns an error: a failing fingerprint source degrades to a session
// token that stays stable for the rest of the process.
func (p *Provider) GetUserIdentifier(ctx context.Context) string {
	p.mu.Lock()
	if p.cached != "" {
		cached := p.cached
		p.mu.Unlock()
		return cached
	}
	p.mu.Unlock()

	// Collapse concurrent callers into a single fingerprint attempt. The
	// cache is re-checked inside the flight so a caller that raced past the
	// first check cannot trigger a second attempt.
	value, err, _ := p.group.Do("identifier", func() (interface{}, error) {
		p.mu.Lock()
		if p.cached != "" {
			cached := p.cached
			p.mu.Unlock()
			return cached, nil
		}
		p.mu.Unlock()
		return p.fingerprint(ctx)
	})
	if err != nil {
		p.logger.Warn("fingerprint source failed, using session token", "error", err)
		return p.fallbackToken()
	}

	identifier := value.(string)
	p.mu.Lock()
	if p.cached == "" {
		p.cached = identifier
	}
	identifier = p.cached
	p.mu.Unlock()
	return identifier
}

// Reset discards the cached identifier and session token. The next call to
// GetUserIdentifier resolves from scratch.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.cached = ""
	p.fallback = ""
	p.mu.Unlock()
}

func (p *Provider) fallbackToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fallback == "" {
		p.fallback = fallbackPrefix +
			strconv.FormatUint(rand.Uint64(), 36) +
			strconv.FormatInt(time.Now().UnixMilli(), 36)
	}
	return p.fallback
}
