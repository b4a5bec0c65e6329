package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Eviction tuning. A wizard session quiet for evictAfter has abandoned the
// case or finished; its bucket is reclaimed on the next sweep.
const (
	evictAfter    = 10 * time.Minute
	sweepInterval = time.Minute
)

// bucket tracks the remaining token balance for one key.
type bucket struct {
	tokens float64
	last   time.Time
}

// refill credits tokens for the time since the last touch, capped at burst.
func (b *bucket) refill(now time.Time, rate, burst float64) {
	b.tokens += now.Sub(b.last).Seconds() * rate
	if b.tokens > burst {
		b.tokens = burst
	}
	b.last = now
}

// MemoryLimiter is a per-key token bucket held entirely in process memory.
// Sufficient for a single-instance deployment; sharding the service would
// move the buckets into a shared store, which the autosave endpoint does not
// currently justify.
type MemoryLimiter struct {
	rate  float64
	burst float64

	mu      sync.Mutex
	buckets map[string]*bucket

	closeOnce sync.Once
	stop      chan struct{}
}

// NewMemoryLimiter creates a limiter refilling rate tokens per second per
// key, with capacity burst. Close stops the background sweep.
func NewMemoryLimiter(rate float64, burst int) *MemoryLimiter {
	m := &MemoryLimiter{
		rate:    rate,
		burst:   float64(burst),
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Allow takes one token for key, reporting whether one was available. A key
// seen for the first time starts with a full bucket.
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[key]
	if !ok {
		m.buckets[key] = &bucket{tokens: m.burst - 1, last: now}
		return true, nil
	}

	b.refill(now, m.rate, m.burst)
	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (m *MemoryLimiter) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

// sweep drops buckets idle since before now minus evictAfter.
func (m *MemoryLimiter) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-evictAfter)
	for key, b := range m.buckets {
		if b.last.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}
