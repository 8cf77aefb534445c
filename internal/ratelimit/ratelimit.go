package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/internwatch/internal/model"
)

// HostLimiter enforces a minimum delay between requests to the same host.
type HostLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: host
	minDelay time.Duration        // delay between requests to same host
}

// NewHostLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same host.
func NewHostLimiter(minDelay time.Duration) *HostLimiter {
	return &HostLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the given host.
// Returns an error if the context is cancelled while waiting.
func (r *HostLimiter) Wait(ctx context.Context, host string) error {
	r.mu.Lock()
	last, ok := r.lastCall[host]
	now := time.Now()

	if !ok {
		// First request for this host — no wait needed.
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		// Enough time has passed — proceed immediately.
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	// Need to wait for the remainder.
	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", host, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[host] = time.Now()
	r.mu.Unlock()

	return nil
}

// LimitedFetcher is a decorator that enforces host-level rate limiting
// before delegating to the wrapped SourceFetcher.
type LimitedFetcher struct {
	inner   model.SourceFetcher
	limiter *HostLimiter
	host    string // which host this fetcher targets
}

// NewLimitedFetcher wraps a SourceFetcher with host-level rate limiting.
// All fetchers targeting the same host should share the same limiter instance.
func NewLimitedFetcher(inner model.SourceFetcher, limiter *HostLimiter, host string) *LimitedFetcher {
	return &LimitedFetcher{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

func (f *LimitedFetcher) Name() string { return f.inner.Name() }

// Fetch waits for the rate limiter to allow a request, then delegates to
// the wrapped fetcher.
func (f *LimitedFetcher) Fetch(ctx context.Context) ([]model.Record, error) {
	if err := f.limiter.Wait(ctx, f.host); err != nil {
		return nil, err
	}
	return f.inner.Fetch(ctx)
}
