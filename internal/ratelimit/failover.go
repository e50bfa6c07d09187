package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverLimiter uses primary until it errors, then serves from fallback and
// retries primary once per recoveryInterval.
type FailoverLimiter struct {
	primary   Limiter
	fallback  Limiter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailoverLimiter(primary, fallback Limiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.isDown.Load() || l.recoveryDue() {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			if l.isDown.Swap(false) {
				l.logger.Info().Msg("Primary rate limiter recovered")
			}
			return allowed, nil
		}
		if !l.isDown.Swap(true) {
			l.logger.Error().Err(err).Msg("Primary rate limiter failed, falling back to memory")
		}
		l.lastCheck.Store(l.now().UnixNano())
	}

	return l.fallback.Allow(ctx, key)
}

func (l *FailoverLimiter) recoveryDue() bool {
	last := time.Unix(0, l.lastCheck.Load())
	return l.now().Sub(last) > recoveryInterval
}
