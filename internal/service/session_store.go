package service

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionScanBatch = 100

// SessionStore tracks issued token IDs so that logout, refresh rotation
// and user deletion can revoke a token before it expires.
type SessionStore interface {
	Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type sessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &sessionStore{client: client}
}

func sessionKey(userID uuid.UUID, tokenID string, tokenType jwt.TokenType) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func (s *sessionStore) Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(userID, tokenID, tokenType), "valid", ttl).Err()
}

func (s *sessionStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(userID, tokenID, tokenType)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sessionStore) Delete(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error {
	return s.client.Del(ctx, sessionKey(userID, tokenID, tokenType)).Err()
}

// RevokeAll drops every access and refresh token of the user.
func (s *sessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	var revoked int64
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		pattern := sessionKey(userID, "*", tokenType)
		iter := s.client.Scan(ctx, 0, pattern, sessionScanBatch).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return revoked, err
		}
		if len(keys) == 0 {
			continue
		}

		n, err := s.client.Del(ctx, keys...).Result()
		if err != nil {
			return revoked, err
		}
		revoked += n
	}
	return revoked, nil
}
