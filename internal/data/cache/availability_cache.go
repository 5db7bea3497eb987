// Package cache keeps short-lived seat snapshots of showtimes in redis.
// Snapshots only feed the advisory availability check; reservation writes
// always read the locked database row.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// generationTTL outlives any snapshot by a wide margin so a generation
// read before a database query is still there when the fill runs.
const generationTTL = 24 * time.Hour

// SeatSnapshot is the cached pair of counters for one showtime.
type SeatSnapshot struct {
	Total  int
	Booked int
}

// AvailabilityCache fills are guarded by a per-showtime generation.
// Callers read Generation before loading the row and pass it to Set;
// an Invalidate in between makes that Set a no-op.
type AvailabilityCache interface {
	Get(ctx context.Context, showtimeID int64) (*SeatSnapshot, error)
	Generation(ctx context.Context, showtimeID int64) (int64, error)
	Set(ctx context.Context, showtimeID, generation int64, snap SeatSnapshot) (bool, error)
	Invalidate(ctx context.Context, showtimeID int64) error
}

type redisAvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewAvailabilityCache returns a no-op cache when rdb is nil.
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) AvailabilityCache {
	if rdb == nil {
		return noopCache{}
	}
	return &redisAvailabilityCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("cache", "availability")),
	}
}

// both keys of a showtime share a hash slot so the fill script can touch them together
func seatsKey(showtimeID int64) string {
	return fmt.Sprintf("showtime:{%d}:seats", showtimeID)
}

func generationKey(showtimeID int64) string {
	return fmt.Sprintf("showtime:{%d}:gen", showtimeID)
}

// KEYS[1] seats hash, KEYS[2] generation
// ARGV[1] expected generation, ARGV[2] total, ARGV[3] booked, ARGV[4] ttl ms
var fillIfUnchanged = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if not gen then gen = '0' end
if gen ~= ARGV[1] then
  return 0
end
redis.call('HSET', KEYS[1], 'total', ARGV[2], 'booked', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// Get returns nil, nil on a miss.
func (c *redisAvailabilityCache) Get(ctx context.Context, showtimeID int64) (*SeatSnapshot, error) {
	vals, err := c.rdb.HMGet(ctx, seatsKey(showtimeID), "total", "booked").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seat snapshot %d: %w", showtimeID, err)
	}

	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, nil
	}

	total, err := strconv.Atoi(fmt.Sprint(vals[0]))
	if err != nil {
		return nil, nil
	}
	booked, err := strconv.Atoi(fmt.Sprint(vals[1]))
	if err != nil {
		return nil, nil
	}

	return &SeatSnapshot{Total: total, Booked: booked}, nil
}

// Generation is 0 for a showtime that was never invalidated.
func (c *redisAvailabilityCache) Generation(ctx context.Context, showtimeID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(showtimeID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get snapshot generation %d: %w", showtimeID, err)
	}
	return gen, nil
}

// Set stores snap only while the generation still equals generation.
// It reports false when an Invalidate got there first.
func (c *redisAvailabilityCache) Set(ctx context.Context, showtimeID, generation int64, snap SeatSnapshot) (bool, error) {
	stored, err := fillIfUnchanged.Run(ctx, c.rdb,
		[]string{seatsKey(showtimeID), generationKey(showtimeID)},
		strconv.FormatInt(generation, 10), snap.Total, snap.Booked, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("set seat snapshot %d: %w", showtimeID, err)
	}
	return stored == 1, nil
}

// Invalidate bumps the generation and drops the snapshot in one transaction.
func (c *redisAvailabilityCache) Invalidate(ctx context.Context, showtimeID int64) error {
	genKey := generationKey(showtimeID)

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, seatsKey(showtimeID))
		return nil
	})
	if err != nil {
		c.log.Warn("Failed to invalidate seat snapshot",
			zap.Error(err),
			zap.Int64("showtime_id", showtimeID),
		)
		return fmt.Errorf("invalidate seat snapshot %d: %w", showtimeID, err)
	}
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*SeatSnapshot, error)              { return nil, nil }
func (noopCache) Generation(context.Context, int64) (int64, error)               { return 0, nil }
func (noopCache) Set(context.Context, int64, int64, SeatSnapshot) (bool, error) { return false, nil }
func (noopCache) Invalidate(context.Context, int64) error                        { return nil }
