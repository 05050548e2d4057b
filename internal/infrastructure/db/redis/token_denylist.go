package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:refresh:"

// TokenDenylist records refresh-token JTIs retired by rotation. Entries
// expire together with the token they retire.
// Key format: denylist:refresh:<jti>
type TokenDenylist struct {
	client *redis.Client
	now    func() time.Time
}

func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client, now: time.Now}
}

// Revoke retires jti until the token's own expiry and reports whether this
// call did so. SETNX makes the claim atomic: of several concurrent callers
// presenting the same jti exactly one gets true. Already expired tokens are
// not stored and report false.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return false, nil
	}
	claimed, err := d.client.SetNX(ctx, d.key(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("denylist revoke: %w", err)
	}
	return claimed, nil
}

func (d *TokenDenylist) key(jti string) string {
	return denylistPrefix + jti
}
