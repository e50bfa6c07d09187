package ratelimit

import "context"

// Limiter decides whether another request for key fits into the current budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
