package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrWindow(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c, err := NewClient("redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer c.Close()

	n, err := c.IncrWindow(ctx, "ratelimit:login:k:1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mr.FastForward(20 * time.Second)
	n, err = c.IncrWindow(ctx, "ratelimit:login:k:1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := c.TTL(ctx, "ratelimit:login:k:1")
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, ttl, "expiry is set once, on the first hit")

	mr.FastForward(41 * time.Second)
	n, err = c.IncrWindow(ctx, "ratelimit:login:k:1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewClientErrors(t *testing.T) {
	_, err := NewClient("not a url", nil)
	assert.ErrorContains(t, err, "invalid redis url")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewClient("redis://"+addr, nil)
	assert.ErrorContains(t, err, "failed to connect")
}
