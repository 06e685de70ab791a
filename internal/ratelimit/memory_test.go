package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryLimiter()

	t.Run("allows up to the limit", func(t *testing.T) {
		var last *Result
		for i := 0; i < 5; i++ {
			var err error
			last, err = limiter.Allow(ctx, "key:limit", 5, time.Minute)
			require.NoError(t, err)
			require.True(t, last.Allowed)
		}
		require.Equal(t, 0, last.Remaining)
	})

	t.Run("denies over the limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := limiter.Allow(ctx, "key:over", 3, time.Minute)
			require.NoError(t, err)
		}
		result, err := limiter.Allow(ctx, "key:over", 3, time.Minute)
		require.NoError(t, err)
		require.False(t, result.Allowed)
		require.False(t, result.ResetAt.IsZero())
	})

	t.Run("window expiry frees the key", func(t *testing.T) {
		_, err := limiter.Allow(ctx, "key:expire", 1, time.Minute)
		require.NoError(t, err)

		limiter.mu.Lock()
		limiter.windows["key:expire"].timestamps = []time.Time{time.Now().Add(-2 * time.Minute)}
		limiter.mu.Unlock()

		result, err := limiter.Allow(ctx, "key:expire", 1, time.Minute)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := limiter.Allow(ctx, "key:a", 2, time.Minute)
			require.NoError(t, err)
		}
		result, err := limiter.Allow(ctx, "key:b", 2, time.Minute)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})
}
