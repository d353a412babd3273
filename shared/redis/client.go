package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/config"
	goredis "github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client is the read-model store behind the user view cache.
type Client struct {
	*goredis.Client
}

// NewClient dials cfg and pings it; on failure the pool is closed again.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", cfg.Addr(), cfg.DB, err)
	}

	return &Client{Client: rdb}, nil
}
