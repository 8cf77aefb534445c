package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/internwatch/internal/model"
)

func TestWait_SameHost_EnforcesMinDelay(t *testing.T) {
	limiter := NewHostLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "www.intern-list.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "www.intern-list.com"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentHosts_NoCrossBlocking(t *testing.T) {
	limiter := NewHostLimiter(200 * time.Millisecond)
	ctx := context.Background()

	// Call for intern-list.
	if err := limiter.Wait(ctx, "www.intern-list.com"); err != nil {
		t.Fatalf("intern-list wait: %v", err)
	}

	// Immediately call for simplify — should NOT block.
	start := time.Now()
	if err := limiter.Wait(ctx, "simplify.jobs"); err != nil {
		t.Fatalf("simplify wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("expected simplify wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewHostLimiter(5 * time.Second) // long delay
	ctx := context.Background()

	// First call to seed the last-call time.
	if err := limiter.Wait(ctx, "www.intern-list.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	// Cancel the context before the wait completes.
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := limiter.Wait(ctx, "www.intern-list.com")
	if err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// --- Mock for LimitedFetcher test ---

type recordingFetcher struct {
	called bool
}

func (f *recordingFetcher) Name() string { return "recording" }

func (f *recordingFetcher) Fetch(_ context.Context) ([]model.Record, error) {
	f.called = true
	return nil, nil
}

func TestLimitedFetcher_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewHostLimiter(100 * time.Millisecond)
	inner := &recordingFetcher{}
	fetcher := NewLimitedFetcher(inner, limiter, "www.intern-list.com")
	ctx := context.Background()

	// First call — seeds limiter, then delegates.
	if _, err := fetcher.Fetch(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !inner.called {
		t.Fatal("inner fetcher was not called on first fetch")
	}

	// Reset.
	inner.called = false

	// Second call — should wait for the rate limiter.
	start := time.Now()
	if _, err := fetcher.Fetch(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner fetcher was not called on second fetch")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second fetch, got %v", elapsed)
	}
}

func TestLimitedFetcher_NamePassthrough(t *testing.T) {
	fetcher := NewLimitedFetcher(&recordingFetcher{}, NewHostLimiter(time.Second), "simplify.jobs")
	if fetcher.Name() != "recording" {
		t.Errorf("Name = %q, want inner fetcher's name", fetcher.Name())
	}
}
