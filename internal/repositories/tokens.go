package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "warbler:revoked:"

// TokenDenylist remembers logged out token ids until they expire.
// A nil *TokenDenylist treats every token as valid.
type TokenDenylist struct {
	rdb *redis.Client
}

// NewTokenDenylist connects to redisURL. An empty URL disables revocation.
func NewTokenDenylist(ctx context.Context, redisURL string) (*TokenDenylist, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &TokenDenylist{rdb: rdb}, nil
}

// Revoke marks jti as revoked until the token would have expired anyway.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if d == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, revokedTokenPrefix+jti, 1, ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if d == nil || jti == "" {
		return false, nil
	}
	err := d.rdb.Get(ctx, revokedTokenPrefix+jti).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (d *TokenDenylist) Close() error {
	if d == nil {
		return nil
	}
	return d.rdb.Close()
}
