package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/nba-projections-service/internal/config"
	"github.com/preston-bernstein/nba-projections-service/internal/lock"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
)

// buildLocker returns the Redis lock when REDIS_ADDR is set, otherwise an in-process lock.
// The returned close function is never nil.
func buildLocker(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (lock.Locker, func() error, error) {
	if cfg.Addr == "" {
		logging.Info(logger, "run lock is in-process")
		return lock.NewMemory(), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, backendConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	locker := lock.NewRedis(client, "")
	logging.Info(logger, "run lock is shared", slog.String("redis_addr", cfg.Addr))
	return locker, locker.Close, nil
}
