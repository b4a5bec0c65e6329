package ratelimit

import (
	"context"
	"testing"
	"time"
)

func closeLimiter(t *testing.T, m *MemoryLimiter) {
	t.Helper()
	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestMemoryLimiterAllowsWithinBurst(t *testing.T) {
	m := NewMemoryLimiter(5, 3) // 5 rps, burst 3
	defer closeLimiter(t, m)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := m.Allow(ctx, "case-1")
		if err != nil {
			t.Fatalf("Allow error on request %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("expected Allow=true for request %d within burst", i)
		}
	}
}

func TestMemoryLimiterDeniesAfterBurst(t *testing.T) {
	m := NewMemoryLimiter(5, 2)
	defer closeLimiter(t, m)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if ok, _ := m.Allow(ctx, "case-1"); !ok {
			t.Fatalf("expected Allow=true for request %d", i)
		}
	}
	if ok, _ := m.Allow(ctx, "case-1"); ok {
		t.Fatal("expected Allow=false once the burst is spent")
	}
}

func TestMemoryLimiterRefillsOverTime(t *testing.T) {
	// 1000 rps refills one token per millisecond.
	m := NewMemoryLimiter(1000, 1)
	defer closeLimiter(t, m)

	ctx := context.Background()
	_, _ = m.Allow(ctx, "case-1")
	if ok, _ := m.Allow(ctx, "case-1"); ok {
		t.Fatal("expected denial immediately after the burst")
	}

	time.Sleep(5 * time.Millisecond)

	ok, err := m.Allow(ctx, "case-1")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if !ok {
		t.Fatal("expected Allow=true after refill")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	m := NewMemoryLimiter(5, 1)
	defer closeLimiter(t, m)

	ctx := context.Background()
	if ok, _ := m.Allow(ctx, "case-a"); !ok {
		t.Fatal("first request for case-a should be allowed")
	}
	if ok, _ := m.Allow(ctx, "case-a"); ok {
		t.Fatal("second request for case-a should be denied")
	}
	if ok, _ := m.Allow(ctx, "case-b"); !ok {
		t.Fatal("case-b has its own bucket and should be allowed")
	}
}

func TestMemoryLimiterEvictsStaleBuckets(t *testing.T) {
	m := NewMemoryLimiter(5, 1)
	defer closeLimiter(t, m)

	ctx := context.Background()
	_, _ = m.Allow(ctx, "old")
	_, _ = m.Allow(ctx, "fresh")

	m.mu.Lock()
	m.buckets["old"].last = time.Now().Add(-evictAfter - time.Minute)
	m.mu.Unlock()

	m.sweep(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets["old"]; ok {
		t.Fatal("expected stale bucket to be evicted")
	}
	if _, ok := m.buckets["fresh"]; !ok {
		t.Fatal("expected fresh bucket to survive eviction")
	}
}
