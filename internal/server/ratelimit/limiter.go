// Package ratelimit throttles requests per key (client IP for logins) with
// fixed windows, either in process or shared through Redis.
package ratelimit

import (
	"context"
	"time"
)

// Limiter reports whether one more request for key fits in the current
// window. When it does not, retryAfter tells how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
