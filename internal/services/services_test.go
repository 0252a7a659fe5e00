package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripdeskhq/tripdesk/internal/ratelimit"
)

type stubLimiter struct {
	stopped bool
}

func (s *stubLimiter) Allow(_ context.Context, _ string, _ ratelimit.Limit) (bool, error) {
	return true, nil
}

func (s *stubLimiter) Stop() {
	s.stopped = true
}

func TestCloseStopsLoginLimiter(t *testing.T) {
	limiter := &stubLimiter{}
	svc := &Services{LoginLimiter: limiter}

	svc.Close()

	assert.True(t, limiter.stopped)
}

func TestCloseWithoutLimiter(t *testing.T) {
	svc := &Services{}

	assert.NotPanics(t, func() { svc.Close() })
}
