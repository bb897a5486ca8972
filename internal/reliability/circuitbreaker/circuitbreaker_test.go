package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerLifecycle(t *testing.T) {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, 1, 10*time.Second)
	cb.now = func() time.Time { return now }

	var transitions []string
	cb.OnStateChange(func(from, to State) { transitions = append(transitions, from.String()+"->"+to.String()) })

	boom := errors.New("boom")
	assert.ErrorIs(t, cb.Do(func() error { return boom }), boom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Do(func() error { return boom }), boom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	assert.ErrorIs(t, cb.Do(func() error { called = true; return nil }), ErrOpen)
	assert.False(t, called)

	now = now.Add(10 * time.Second)
	assert.NoError(t, cb.Do(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, 2, time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(time.Second)
	assert.True(t, cb.AllowRequest())
	assert.Equal(t, StateHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.AllowRequest())
}

func TestSuccessResetsStreak(t *testing.T) {
	cb := NewCircuitBreaker(2, 1, time.Minute)
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())
}
