// Package ratelimit throttles login attempts per account identifier using a
// token bucket, stored either in process memory or in Redis when the server
// runs more than one instance.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limit describes a bucket: at most Attempts tokens refilled over Window.
type Limit struct {
	Attempts int
	Window   time.Duration
}

// DefaultLoginLimit allows a burst of 10 attempts refilled over 5 minutes.
var DefaultLoginLimit = Limit{Attempts: 10, Window: 5 * time.Minute}

// Storage is the bucket backend. Allow consumes one token for key and
// reports whether the attempt may proceed. Stop releases whatever the
// backend holds (a cleanup goroutine, a connection) and is called once on
// server shutdown.
type Storage interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	Stop()
}

// InMemoryStorage keeps token buckets in process memory, with a background
// sweep that drops buckets idle for twice their window.
type InMemoryStorage struct {
	mu          sync.Mutex
	buckets     map[string]*tokenBucket
	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

func NewInMemoryStorage() *InMemoryStorage {
	storage := &InMemoryStorage{
		buckets:     make(map[string]*tokenBucket),
		cleanup:     time.NewTicker(5 * time.Minute),
		stopCleanup: make(chan struct{}),
	}

	go storage.cleanupUnusedBuckets()

	return storage
}

// Stop stops the background cleanup goroutine. Call this when shutting down.
func (s *InMemoryStorage) Stop() {
	s.cleanup.Stop()
	close(s.stopCleanup)
}

func (s *InMemoryStorage) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	if limit.Attempts <= 0 || limit.Window <= 0 {
		return false, fmt.Errorf("invalid rate limit: %d per %s", limit.Attempts, limit.Window)
	}

	s.mu.Lock()
	bucket, exists := s.buckets[key]
	if !exists {
		bucket = newTokenBucket(float64(limit.Attempts), limit.Window)
		s.buckets[key] = bucket
	}
	s.mu.Unlock()

	return bucket.consume(1), nil
}

func (s *InMemoryStorage) cleanupUnusedBuckets() {
	for {
		select {
		case <-s.cleanup.C:
			s.mu.Lock()
			now := time.Now()
			for key, bucket := range s.buckets {
				bucket.mu.Lock()
				unusedDuration := now.Sub(bucket.lastRefill)
				if unusedDuration > bucket.windowDuration*2 {
					delete(s.buckets, key)
				}
				bucket.mu.Unlock()
			}
			s.mu.Unlock()
		case <-s.stopCleanup:
			return
		}
	}
}

type tokenBucket struct {
	mu             sync.Mutex
	tokens         float64
	lastRefill     time.Time
	capacity       float64
	refillRate     float64 // tokens per second
	windowDuration time.Duration
}

func newTokenBucket(capacity float64, window time.Duration) *tokenBucket {
	return &tokenBucket{
		tokens:         capacity,
		lastRefill:     time.Now(),
		capacity:       capacity,
		refillRate:     capacity / window.Seconds(),
		windowDuration: window,
	}
}

// consume attempts to take the requested number of tokens, refilling the
// bucket for the time elapsed since the last call first.
func (tb *tokenBucket) consume(tokens float64) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= tokens {
		tb.tokens -= tokens
		return true
	}

	return false
}
