package repositories

import "context"

// CacheRepository defines the interface for cache operations. A miss is
// reported as (false, nil) from Get.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}
