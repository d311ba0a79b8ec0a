package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// Revoker tracks revoked token IDs in Redis. Entries expire together with
// the token they block, so the set stays bounded. With no Redis client the
// revoker degrades to never-revoked, which keeps local development working
// without a running Redis.
type Revoker struct {
	client *redis.Client
}

// NewRevoker builds a Revoker; client may be nil.
func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

// Revoke blocks the token ID until the token's own expiry.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	_, err := r.client.Get(ctx, revokedKeyPrefix+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
