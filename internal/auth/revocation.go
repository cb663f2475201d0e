package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// Revoker tracks tokens invalidated before their natural expiry. Logout
// stores the token's jti until the token would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevoker struct {
	client *redis.Client
}

// NewRedisRevoker builds a Redis-backed revocation list.
func NewRedisRevoker(client *redis.Client) Revoker {
	return &redisRevoker{client: client}
}

func (r *redisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	res, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}
