// Package ratelimit construye los limitadores de intentos de login sobre ulule/limiter.
package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/jhoicas/fieldsales-api/pkg/config"
)

const keyPrefix = "fieldsales:ratelimit"

// NewRedisClient cliente go-redis compartido por los limitadores.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedis limitador con estado en redis, compartido entre réplicas de la API.
// formatted usa la notación de ulule ("10-M" = 10 por minuto); name separa contadores.
func NewRedis(ctx context.Context, client *redis.Client, formatted, name string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: tasa %q: %w", formatted, err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ratelimit: redis: %w", err)
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: keyPrefix + ":" + name})
	if err != nil {
		return nil, fmt.Errorf("ratelimit: store: %w", err)
	}
	return limiter.New(store, rate), nil
}

// NewMemory limitador en memoria del proceso; sirve para desarrollo y tests.
func NewMemory(formatted, name string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: tasa %q: %w", formatted, err)
	}
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          keyPrefix + ":" + name,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	return limiter.New(store, rate), nil
}
