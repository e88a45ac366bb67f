package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis opens the client used by the auth-route rate limiter.
func ConnectRedis(ctx context.Context, addr, password string, db int, logger *zap.SugaredLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Errorf("Redis ping failed: %v", err)
		return nil, err
	}

	logger.Info("Redis connected")
	return rdb, nil
}
