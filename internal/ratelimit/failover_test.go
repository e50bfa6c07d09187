package ratelimit

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func TestFailoverLimiter(t *testing.T) {
	primary := new(mockLimiter)
	fallback := new(mockLimiter)
	logger := zerolog.New(io.Discard)
	limiter := NewFailoverLimiter(primary, fallback, &logger)
	ctx := context.Background()

	now := time.Now()
	limiter.now = func() time.Time { return now }

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary.On("Allow", ctx, "1").Return(true, nil).Once()

		ok, err := limiter.Allow(ctx, "1")
		assert.NoError(t, err)
		assert.True(t, ok)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		primary.On("Allow", ctx, "2").Return(false, errors.New("fail")).Once()
		fallback.On("Allow", ctx, "2").Return(true, nil).Once()

		ok, err := limiter.Allow(ctx, "2")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, limiter.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallbackWithinInterval", func(t *testing.T) {
		fallback.On("Allow", ctx, "3").Return(false, nil).Once()

		ok, err := limiter.Allow(ctx, "3")
		assert.NoError(t, err)
		assert.False(t, ok)
		primary.AssertNotCalled(t, "Allow", ctx, "3")
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		primary.On("Allow", ctx, "4").Return(true, nil).Once()

		ok, err := limiter.Allow(ctx, "4")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, limiter.isDown.Load())
		primary.AssertExpectations(t)
	})
}
