package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmehdipour/sms-admin/internal/config"
)

// NewRedisClient connects and pings. It returns (nil, nil) when no address
// is configured so callers can run without rate limiting.
func NewRedisClient(c config.RedisConfig) (*redis.Client, error) {
	if c.Addr == "" {
		return nil, nil
	}
	timeout := c.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: timeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
