// Package ratelimit throttles the public hook endpoints per shop and client.
package ratelimit

import (
	"context"
	"time"
)

// Rate is the number of events allowed per window.
type Rate struct {
	Window time.Duration
	Max    int
}

func (r Rate) unlimited() bool { return r.Max <= 0 || r.Window <= 0 }

// Result describes the outcome of counting one event.
type Result struct {
	Allowed   bool
	Remaining int
	// Reset is when the window next frees a slot for key.
	Reset time.Time
}

func unlimited(rate Rate, now time.Time) Result {
	return Result{Allowed: true, Remaining: rate.Max, Reset: now.Add(rate.Window)}
}

// Limiter counts one event for key against rate.
type Limiter interface {
	Allow(ctx context.Context, key string, rate Rate) (Result, error)
}
