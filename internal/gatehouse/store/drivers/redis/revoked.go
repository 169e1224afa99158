package redis

import (
	"context"
	"errors"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/store"

	goredis "github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

// RevokedTokenStore records revoked session tokens until their natural
// expiry. A token only needs to stay on the list for its remaining
// lifetime, after that the signature check rejects it anyway.
type RevokedTokenStore struct {
	client *goredis.Client
}

var _ store.RevokedTokens = (*RevokedTokenStore)(nil)

func (s *RevokedTokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, revokedTokenPrefix+token, "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *RevokedTokenStore) Check(ctx context.Context, token string) error {
	err := s.client.Get(ctx, revokedTokenPrefix+token).Err()
	if errors.Is(err, goredis.Nil) {
		return store.ErrNotFound
	}
	return err
}
