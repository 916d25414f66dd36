package client

import "context"

// RemoteStore persists credentials through the key service.
type RemoteStore interface {
	Fetch(ctx context.Context, userIdentifier string) (string, error)
	Save(ctx context.Context, userIdentifier, apiKey string) error
	Exists(ctx context.Context, userIdentifier string) (bool, error)
	Delete(ctx context.Context, userIdentifier string) error
}

// LegacyStore reads and clears credentials left behind by the old
// plaintext storage.
type LegacyStore interface {
	Get() string
	Set(apiKey string) error
	Clear() error
}

// IdentifierProvider resolves the identifier used to scope credentials.
type IdentifierProvider interface {
	GetUserIdentifier(ctx context.Context) string
}
