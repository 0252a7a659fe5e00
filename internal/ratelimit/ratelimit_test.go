package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowConsumesBurst(t *testing.T) {
	s := NewInMemoryStorage()
	defer s.Stop()

	limit := Limit{Attempts: 3, Window: time.Hour}

	for i := 0; i < 3; i++ {
		ok, err := s.Allow(context.Background(), "alice@agency.test", limit)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should pass", i+1)
	}

	ok, err := s.Allow(context.Background(), "alice@agency.test", limit)
	require.NoError(t, err)
	assert.False(t, ok, "burst exhausted")
}

func TestAllowKeysAreIndependent(t *testing.T) {
	s := NewInMemoryStorage()
	defer s.Stop()

	limit := Limit{Attempts: 1, Window: time.Hour}

	ok, err := s.Allow(context.Background(), "alice@agency.test", limit)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Allow(context.Background(), "alice@agency.test", limit)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Allow(context.Background(), "bob@agency.test", limit)
	require.NoError(t, err)
	assert.True(t, ok, "a different account has its own bucket")
}

func TestAllowRejectsInvalidLimit(t *testing.T) {
	s := NewInMemoryStorage()
	defer s.Stop()

	_, err := s.Allow(context.Background(), "key", Limit{})
	assert.Error(t, err)
}

func TestStopHaltsCleanupLoop(t *testing.T) {
	s := NewInMemoryStorage()
	s.Stop()

	select {
	case <-s.stopCleanup:
	default:
		t.Fatal("cleanup goroutine still armed after Stop")
	}
}

func TestBucketRefills(t *testing.T) {
	tb := newTokenBucket(2, 100*time.Millisecond)

	assert.True(t, tb.consume(1))
	assert.True(t, tb.consume(1))
	assert.False(t, tb.consume(1))

	time.Sleep(120 * time.Millisecond)
	assert.True(t, tb.consume(1), "tokens refill over the window")
}
