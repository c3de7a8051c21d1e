package otp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/forgehack/platform/internal/otp/domain"
	redis "github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "otp:code:"

// RedisStore keeps code hashes in redis; the TTL is the code expiry, so
// expired codes disappear without a cleanup job.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func codeKey(email string) string {
	return codeKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (s *RedisStore) Save(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKey(email), codeHash, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, email string) (string, error) {
	hash, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCodeExpired
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, codeKey(email)).Err()
}
