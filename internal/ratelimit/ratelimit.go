// Package ratelimit provides the pacing primitives shared by extractors and
// the asset downloader: a jittered per-caller delay and a global token
// bucket for outbound HTTP.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter gates an action on a pacing policy.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Jittered enforces a randomized delay in [min, max] between consecutive
// actions. Used for download pacing, where the randomness itself is the
// point (mimics human cadence, avoids fixed-interval signatures).
type Jittered struct {
	mu       sync.Mutex
	min      time.Duration
	max      time.Duration
	lastTick time.Time
}

func NewJittered(min, max time.Duration) *Jittered {
	if max < min {
		max = min
	}
	return &Jittered{min: min, max: max}
}

func (j *Jittered) Wait(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delay := j.min
	if j.max > j.min {
		delay += time.Duration(rand.Int63n(int64(j.max - j.min)))
	}

	elapsed := time.Since(j.lastTick)
	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	j.lastTick = time.Now()
	return nil
}

// TokenBucket is the global outbound-request limiter: capacity tokens,
// one refilled per interval. It replaces ad hoc sleeps between requests.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	refillRate time.Duration
	lastRefill time.Time
}

func NewTokenBucket(capacity int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		tokens:     capacity,
		capacity:   capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (t *TokenBucket) Wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		t.refill()
		if t.tokens > 0 {
			t.tokens--
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.refillRate):
		}
	}
}

func (t *TokenBucket) refill() {
	elapsed := time.Since(t.lastRefill)
	add := int(elapsed / t.refillRate)
	if add > 0 {
		t.tokens += add
		if t.tokens > t.capacity {
			t.tokens = t.capacity
		}
		t.lastRefill = t.lastRefill.Add(time.Duration(add) * t.refillRate)
	}
}

// Unlimited is a no-op limiter for tests and the debug single-product mode.
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
