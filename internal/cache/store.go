package cache

import (
	"context"
	"time"
)

// Store is the key/value surface used for session revocation and
// short-lived aggregate caching. Implementations must treat a missing
// key as (nil, false, nil), not as an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
