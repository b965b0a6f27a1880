package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config for the shared Redis client.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// New connects and pings; the returned client is injected where needed.
func New(c Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
