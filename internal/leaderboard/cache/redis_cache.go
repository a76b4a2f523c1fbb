package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set holding user ids scored by ratio.
const DefaultKey = "connect4:leaderboard"

// RedisRanking keeps ratios in a Redis sorted set.
type RedisRanking struct {
	rdb *redis.Client
	key string
}

func NewRedisRanking(rdb *redis.Client, key string) *RedisRanking {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRanking{rdb: rdb, key: key}
}

func (r *RedisRanking) Warm(ctx context.Context) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisRanking) Set(ctx context.Context, scores map[string]float64) error {
	if len(scores) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(scores))
	for id, score := range scores {
		members = append(members, redis.Z{Score: score, Member: id})
	}
	return r.rdb.ZAdd(ctx, r.key, members...).Err()
}

func (r *RedisRanking) Top(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.rdb.ZRevRange(ctx, r.key, 0, int64(n-1)).Result()
}
