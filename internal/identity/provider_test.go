package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_GetUserIdentifier(t *testing.T) {
	t.Run("Success_CachesFirstValue", func(t *testing.T) {
		var calls atomic.Int32
		provider := NewProvider(func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "device-1", nil
		}, newTestLogger())

		ctx := context.Background()
		assert.Equal(t, "device-1", provider.GetUserIdentifier(ctx))
		assert.Equal(t, "device-1", provider.GetUserIdentifier(ctx))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Success_ConcurrentCallersShareOneAttempt", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		provider := NewProvider(func(ctx context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "device-1", nil
		}, newTestLogger())

		ctx := context.Background()
		results := make([]string, 8)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = provider.GetUserIdentifier(ctx)
			}(i)
		}
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, result := range results {
			assert.Equal(t, "device-1", result)
		}
	})

	t.Run("Fallback_SourceFailure", func(t *testing.T) {
		provider := NewProvider(func(ctx context.Context) (string, error) {
			return "", errors.New("fingerprint unavailable")
		}, newTestLogger())

		ctx := context.Background()
		token := provider.GetUserIdentifier(ctx)
		assert.True(t, strings.HasPrefix(token, "fallback_"))
		assert.Greater(t, len(token), len("fallback_"))

		// Session token stays stable across calls.
		assert.Equal(t, token, provider.GetUserIdentifier(ctx))
	})

	t.Run("Fallback_RecoversOnLaterSuccess", func(t *testing.T) {
		var fail atomic.Bool
		fail.Store(true)
		provider := NewProvider(func(ctx context.Context) (string, error) {
			if fail.Load() {
				return "", errors.New("fingerprint unavailable")
			}
			return "device-1", nil
		}, newTestLogger())

		ctx := context.Background()
		token := provider.GetUserIdentifier(ctx)
		assert.True(t, strings.HasPrefix(token, "fallback_"))

		fail.Store(false)
		assert.Equal(t, "device-1", provider.GetUserIdentifier(ctx))
	})
}

func TestProvider_Reset(t *testing.T) {
	values := []string{"device-1", "device-2"}
	var calls atomic.Int32
	provider := NewProvider(func(ctx context.Context) (string, error) {
		return values[calls.Add(1)-1], nil
	}, newTestLogger())

	ctx := context.Background()
	assert.Equal(t, "device-1", provider.GetUserIdentifier(ctx))

	provider.Reset()
	assert.Equal(t, "device-2", provider.GetUserIdentifier(ctx))
}
