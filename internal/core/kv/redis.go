package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis 多实例部署共享会话；ttl>0 时每次写入刷新过期时间
type Redis struct {
	RDB    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(addr, pass string, db int, prefix string, ttl time.Duration) *Redis {
	return &Redis{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *Redis) Ping(ctx context.Context) error { return r.RDB.Ping(ctx).Err() }

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.RDB.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.RDB.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.RDB.Del(ctx, full...).Err()
}

func (r *Redis) Close() error { return r.RDB.Close() }
