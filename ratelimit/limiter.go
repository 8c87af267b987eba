// Package ratelimit throttles per-endpoint delivery rates with token
// buckets. Endpoints with RateLimit 0 are never throttled.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter holds one token bucket per endpoint, created lazily on first use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens   float64
	lastFill time.Time
	perSec   float64
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether a delivery to the endpoint may proceed now.
// perSec <= 0 means unlimited.
func (l *Limiter) Allow(endpointID string, perSec int) bool {
	if perSec <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[endpointID]
	if !ok {
		// New buckets start full; burst size equals the per-second rate.
		b = &bucket{
			tokens:   float64(perSec),
			lastFill: time.Now(),
			perSec:   float64(perSec),
		}
		l.buckets[endpointID] = b
	}
	b.refill()

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is cancelled.
// perSec <= 0 returns immediately.
func (l *Limiter) Wait(ctx context.Context, endpointID string, perSec int) error {
	if perSec <= 0 {
		return nil
	}

	for {
		if l.Allow(endpointID, perSec) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(float64(time.Second) / float64(perSec))):
		}
	}
}

// Reset drops the bucket for an endpoint, e.g. after deletion.
func (l *Limiter) Reset(endpointID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, endpointID)
}

func (b *bucket) refill() {
	now := time.Now()
	b.tokens += now.Sub(b.lastFill).Seconds() * b.perSec
	if b.tokens > b.perSec {
		b.tokens = b.perSec
	}
	b.lastFill = now
}
