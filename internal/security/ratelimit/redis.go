package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aryan0dhankhar/projectmatch/internal/reliability/circuitbreaker"
)

// Counter is the Redis capability the distributed limiter needs
type Counter interface {
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisLimiter is a fixed-window limiter shared by every server instance.
// Calls to Redis go through a circuit breaker so an outage costs one fast
// error per request instead of a network timeout.
type RedisLimiter struct {
	counter Counter
	breaker *circuitbreaker.CircuitBreaker
	prefix  string
	maxReqs int
	window  time.Duration
	now     func() time.Time
}

func NewRedisLimiter(counter Counter, prefix string, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		counter: counter,
		breaker: circuitbreaker.NewCircuitBreaker(5, 1, 30*time.Second),
		prefix:  prefix,
		maxReqs: maxRequests,
		window:  window,
		now:     time.Now,
	}
}

// OnBreakerStateChange registers fn to observe the Redis circuit
func (l *RedisLimiter) OnBreakerStateChange(fn func(from, to circuitbreaker.State)) {
	l.breaker.OnStateChange(fn)
}

// Allow counts a request for key in the current window
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := l.prefix + ":" + key + ":" + strconv.FormatInt(slot, 10)

	var n int64
	err := l.breaker.Do(func() error {
		var err error
		n, err = l.counter.IncrWindow(ctx, redisKey, l.window)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return n <= int64(l.maxReqs), nil
}
