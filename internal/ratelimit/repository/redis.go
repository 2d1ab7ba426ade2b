package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"blogger-platform/internal/ratelimit/domain"
)

const redisKeyPrefix = "ratelimit:"

// RedisRepository keeps the request log in Redis sorted sets, one per
// (ip, url), scored by epoch milliseconds. Keys expire on their own, so the
// log stays bounded — the storage-hygiene upgrade over the row-per-request
// collection, with identical counting semantics.
type RedisRepository struct {
	rdb *redis.Client
	// retention bounds how long members and keys are kept; must be at least
	// as large as the limiter window.
	retention time.Duration
}

// NewRedisRepository returns a Redis-backed rate-limit log. retention should
// be the limiter window (or larger).
func NewRedisRepository(rdb *redis.Client, retention time.Duration) *RedisRepository {
	if retention <= 0 {
		retention = time.Minute
	}
	return &RedisRepository{rdb: rdb, retention: retention}
}

// Insert appends one request record and refreshes the key's TTL.
func (r *RedisRepository) Insert(ctx context.Context, rec *domain.Record) error {
	key := redisKey(rec.IP, rec.URL)
	pipe := r.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(rec.Date.UnixMilli()),
		Member: uuid.New().String(),
	})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(rec.Date.Add(-r.retention).UnixMilli(), 10))
	pipe.Expire(ctx, key, r.retention)
	_, err := pipe.Exec(ctx)
	return err
}

// Count returns the number of records for (ip, url) dated at or after since.
func (r *RedisRepository) Count(ctx context.Context, ip, url string, since time.Time) (int64, error) {
	return r.rdb.ZCount(ctx, redisKey(ip, url),
		strconv.FormatInt(since.UnixMilli(), 10), "+inf").Result()
}

// DeleteAll removes every rate-limit key. Admin/test reset only.
func (r *RedisRepository) DeleteAll(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func redisKey(ip, url string) string {
	return redisKeyPrefix + ip + ":" + url
}
