package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlidingRedis is a sliding-window limiter over one Redis sorted set per key.
// Rejected events are not kept, so a client that keeps retrying is not locked out longer.
type SlidingRedis struct {
	Client *redis.Client
	Prefix string
	now    func() time.Time
}

// Allow implements Limiter.
func (l SlidingRedis) Allow(ctx context.Context, key string, rate Rate) (Result, error) {
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	if l.Client == nil || rate.unlimited() {
		return unlimited(rate, now), nil
	}

	redisKey := l.Prefix + key
	member := uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-rate.Window).UnixNano(), 10)

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.PExpire(ctx, redisKey, rate.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{Reset: now.Add(rate.Window)}, err
	}

	reset := now.Add(rate.Window)
	if first := oldest.Val(); len(first) > 0 {
		reset = time.Unix(0, int64(first[0].Score)).Add(rate.Window)
	}
	current := int(count.Val())
	if current > rate.Max {
		if err := l.Client.ZRem(ctx, redisKey, member).Err(); err != nil {
			return Result{Reset: reset}, err
		}
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	return Result{Allowed: true, Remaining: rate.Max - current, Reset: reset}, nil
}
