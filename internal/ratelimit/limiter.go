// Package ratelimit bounds how fast anonymous clients can probe the public
// verification endpoint. Issuance routes sit behind authentication and are
// not limited here.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter is implemented by the in-memory sliding window store and the
// Redis-backed store used when the service runs with multiple replicas.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
