package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const (
	pageKeyPrefix = "page:"
	pageTTL       = 10 * time.Minute
)

func NewRedisClient(cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.")
	return rdb, nil
}

type redisPageCache struct {
	rdb    *redis.Client
	logger logger.Logger
}

// NewRedisPageCache stores rendered public pages until they are revalidated
// or the TTL runs out.
func NewRedisPageCache(rdb *redis.Client, log logger.Logger) service.PageCache {
	return &redisPageCache{rdb: rdb, logger: log}
}

func (c *redisPageCache) Get(ctx context.Context, path string) ([]byte, bool) {
	body, err := c.rdb.Get(ctx, pageKeyPrefix+path).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("page cache read failed", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}
	return body, true
}

func (c *redisPageCache) Set(ctx context.Context, path string, body []byte) error {
	return c.rdb.Set(ctx, pageKeyPrefix+path, body, pageTTL).Err()
}

func (c *redisPageCache) Invalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = pageKeyPrefix + p
	}
	return c.rdb.Del(ctx, keys...).Err()
}
