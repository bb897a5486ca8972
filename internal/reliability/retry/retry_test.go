package retry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(3), slog.Default(), "connect", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("connection refused")
		}
		return "pool", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "pool", got)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	cause := errors.New("connection refused")
	calls := 0
	_, err := Do(context.Background(), fastConfig(2), slog.Default(), "connect", func(context.Context) (int, error) {
		calls++
		return 0, cause
	})

	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	_, err := Do(ctx, cfg, slog.Default(), "connect", func(context.Context) (int, error) {
		cancel()
		return 0, errors.New("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffCapped(t *testing.T) {
	cfg := &Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffMultiplier: 2}
	assert.Equal(t, 100*time.Millisecond, Backoff(0, cfg))
	assert.Equal(t, 400*time.Millisecond, Backoff(2, cfg))
	assert.Equal(t, time.Second, Backoff(10, cfg))
}
