// Package redis provides Redis-backed stores for short-lived auth state,
// revoked session tokens and pending 2FA challenges. Expiry is delegated
// to Redis key TTLs.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Store struct {
	client *goredis.Client
}

func NewStore(addr string) *Store {
	return &Store{
		client: goredis.NewClient(&goredis.Options{Addr: addr}),
	}
}

func (s *Store) Close() error { return s.client.Close() }

// Ping verifies the Redis connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) RevokedTokens() *RevokedTokenStore {
	return &RevokedTokenStore{client: s.client}
}

func (s *Store) Challenges(ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{client: s.client, ttl: ttl}
}
