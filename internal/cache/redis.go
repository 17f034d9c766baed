// Package cache инкапсулирует подключение к redis. В auth-service redis
// используется фильтром допуска запросов как атомарное хранилище
// счетчиков по ключу клиентского источника.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/auth-service/internal/config"
	"github.com/redis/go-redis/v9"
)

// Cache обертка над клиентом redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// IncrWithinWindow атомарно увеличивает счетчик ключа и возвращает его
// значение. При первом обращении на ключ ставится срок жизни window,
// по истечении которого счетчик обнуляется вместе с ключом.
func (c *Cache) IncrWithinWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	const op = "cache.IncrWithinWindow"

	pipe := c.Db.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return incr.Val(), nil
}
