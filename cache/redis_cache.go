package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap/zapcore"

	"ctfarena/logger"
)

type RedisCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisCache(addr, password string, db int, log *logger.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{client: client, logger: log}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := r.client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		r.log(zapcore.ErrorLevel, "Failed to set key", key, err)
		return fmt.Errorf("failed to set key %s in cache: %w", key, err)
	}
	r.log(zapcore.DebugLevel, "Cache set", key, nil)
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		r.log(zapcore.DebugLevel, "Cache miss", key, nil)
		return "", false, nil
	}
	if err != nil {
		r.log(zapcore.ErrorLevel, "Failed to get key", key, err)
		return "", false, fmt.Errorf("failed to get key %s from cache: %w", key, err)
	}
	r.log(zapcore.DebugLevel, "Cache hit", key, nil)
	return val, true, nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log(zapcore.ErrorLevel, "Failed to delete key", key, err)
		return fmt.Errorf("failed to delete key %s from cache: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.log(zapcore.ErrorLevel, "Failed to check key", key, err)
		return false, fmt.Errorf("failed to check existence of key %s in cache: %w", key, err)
	}
	return result > 0, nil
}

func (r *RedisCache) log(level zapcore.Level, msg, key string, err error) {
	r.logger.Log(level, "", msg, map[string]any{"key": key}, "CACHE", err)
}
