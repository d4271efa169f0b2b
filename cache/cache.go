package cache

import (
	"context"
	"time"
)

// Cache stores JSON encoded values by key. A miss is reported as (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
