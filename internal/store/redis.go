package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedPrefix = "auth:revoked:"
	resetPrefix   = "auth:reset:"
)

// RedisTokenStore is the access/refresh token deny-list.
type RedisTokenStore struct {
	rdb redis.Cmdable
}

func NewRedisTokenStore(rdb redis.Cmdable) *RedisTokenStore { return &RedisTokenStore{rdb: rdb} }

func (s *RedisTokenStore) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// sudah expired, tidak perlu disimpan
		return nil
	}
	return s.rdb.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
}

func (s *RedisTokenStore) IsDenied(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RedisResetCodes keeps one outstanding password reset code per email.
type RedisResetCodes struct {
	rdb redis.Cmdable
}

func NewRedisResetCodes(rdb redis.Cmdable) *RedisResetCodes { return &RedisResetCodes{rdb: rdb} }

func resetKey(email string) string {
	return resetPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (s *RedisResetCodes) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetKey(email), code, ttl).Err()
}

func (s *RedisResetCodes) Get(ctx context.Context, email string) (string, error) {
	code, err := s.rdb.Get(ctx, resetKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (s *RedisResetCodes) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, resetKey(email)).Err()
}
