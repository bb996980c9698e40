package cache

import (
	"context"
	"time"
)

// Cache is an abstraction layer for cache operations.
// Get returns ("", false, nil) on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
