package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerforge/backend/internal/models"
)

// Blocklist records revoked token IDs so logout is meaningful for otherwise
// stateless session tokens.
type Blocklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "auth:revoked:"

// RedisBlocklist stores revoked JTIs in Redis with a TTL equal to the token's
// remaining lifetime, so entries expire together with the tokens they block.
type RedisBlocklist struct {
	client *redis.Client
}

// NewRedisBlocklist creates a Redis-backed blocklist.
func NewRedisBlocklist(client *redis.Client) *RedisBlocklist {
	return &RedisBlocklist{client: client}
}

// Revoke marks a token ID as revoked until the token would expire anyway.
func (b *RedisBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return b.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked.
func (b *RedisBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Verifier resolves bearer tokens to identities, consulting the blocklist.
type Verifier struct {
	jwt       *JWTService
	blocklist Blocklist
}

// NewVerifier creates a token verifier.
func NewVerifier(jwt *JWTService, blocklist Blocklist) *Verifier {
	return &Verifier{jwt: jwt, blocklist: blocklist}
}

// Verify validates a signed token and returns the embedded identity.
func (v *Verifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := v.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	if v.blocklist != nil && claims.ID != "" {
		revoked, err := v.blocklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}
	return claims.Identity(), nil
}
