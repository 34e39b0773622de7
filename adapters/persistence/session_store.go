package persistence

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/haiminh/geoatlas/internal/application/usecase/account"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

const (
	sessionKeyPrefix  = "session:"
	sessionTokenBytes = 32
)

// redisSessionStore keeps sessions in Redis under the SHA-256 of the
// opaque token, with the TTL doing session expiry. A leaked Redis dump
// therefore exposes no usable session tokens.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) account.SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *redisSessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", apperror.NewInternal("failed to generate session token", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, sessionKey(token), userID.String(), s.ttl).Err(); err != nil {
		return "", apperror.NewInternal("failed to store session", err)
	}
	return token, nil
}

func (s *redisSessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, apperror.NewNotFound("Session", "token")
		}
		return uuid.Nil, apperror.NewInternal("failed to read session", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, apperror.NewInternal("corrupt session value", err)
	}
	return userID, nil
}

func (s *redisSessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return apperror.NewInternal("failed to delete session", err)
	}
	return nil
}
