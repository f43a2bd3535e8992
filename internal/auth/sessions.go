package auth

import (
	"context"
	"time"

	"tradejournal/internal/cache"
)

const (
	revokedKeyPrefix   = "auth:revoked:"
	suspendedKeyPrefix = "auth:suspended:"
)

// Sessions tracks revoked token IDs so logout and account suspension
// take effect before the JWT expires on its own.
type Sessions struct {
	Store cache.Store
}

func (s Sessions) Revoke(ctx context.Context, claims Claims) error {
	if s.Store == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		if until := time.Until(claims.ExpiresAt.Time); until > 0 {
			ttl = until
		}
	}
	return s.Store.Set(ctx, revokedKeyPrefix+claims.ID, []byte("1"), ttl)
}

// SuspendUser blocks every outstanding token for the user until
// UnsuspendUser is called. The key has no TTL so suspension survives
// token rotation.
func (s Sessions) SuspendUser(ctx context.Context, userID string) error {
	if s.Store == nil || userID == "" {
		return nil
	}
	return s.Store.Set(ctx, suspendedKeyPrefix+userID, []byte("1"), 0)
}

func (s Sessions) UnsuspendUser(ctx context.Context, userID string) error {
	if s.Store == nil || userID == "" {
		return nil
	}
	return s.Store.Delete(ctx, suspendedKeyPrefix+userID)
}

func (s Sessions) IsRevoked(ctx context.Context, claims Claims) (bool, error) {
	if s.Store == nil {
		return false, nil
	}
	if claims.ID != "" {
		_, found, err := s.Store.Get(ctx, revokedKeyPrefix+claims.ID)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	if claims.UserID != "" {
		_, found, err := s.Store.Get(ctx, suspendedKeyPrefix+claims.UserID)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
