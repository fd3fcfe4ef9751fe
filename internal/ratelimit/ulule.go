package ratelimit

import (
	"context"
	"sync"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Fixed is a fixed-window limiter over a ulule/limiter store. It backs the
// hook endpoints when no Redis is configured.
type Fixed struct {
	Store limiter.Store

	mu       sync.Mutex
	limiters map[limiter.Rate]*limiter.Limiter
}

// NewMemory returns a Fixed limiter with an in-process store.
func NewMemory() *Fixed {
	return &Fixed{Store: memory.NewStore()}
}

// Allow implements Limiter.
func (f *Fixed) Allow(ctx context.Context, key string, rate Rate) (Result, error) {
	if f.Store == nil || rate.unlimited() {
		return unlimited(rate, time.Now()), nil
	}
	res, err := f.limiter(limiter.Rate{Period: rate.Window, Limit: int64(rate.Max)}).Get(ctx, key)
	if err != nil {
		return Result{Reset: time.Now().Add(rate.Window)}, err
	}
	return Result{Allowed: !res.Reached, Remaining: int(res.Remaining), Reset: time.Unix(res.Reset, 0)}, nil
}

func (f *Fixed) limiter(rate limiter.Rate) *limiter.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limiters == nil {
		f.limiters = map[limiter.Rate]*limiter.Limiter{}
	}
	l, ok := f.limiters[rate]
	if !ok {
		l = limiter.New(f.Store, rate)
		f.limiters[rate] = l
	}
	return l
}
