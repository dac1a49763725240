package ratelimit

import (
	"context"
	"errors"
)

var UpstreamError = errors.New("rate limiter unavailable")

// Limiter answers whether a caller may perform another write right now.
// Implementations count accepted requests in a trailing window per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
