package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bistro/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// RefreshTokenStore records issued refresh tokens so they can be revoked on
// logout. Access tokens stay stateless; only the refresh flow is backed by
// server-side state.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, jti string) (userID uint, err error)
	Delete(ctx context.Context, jti string) error
}

// RedisRefreshTokenStore keeps refresh tokens in Redis keyed by JTI.
type RedisRefreshTokenStore struct {
	cache *cache.Client
}

var _ RefreshTokenStore = (*RedisRefreshTokenStore)(nil)

// NewRefreshTokenStore creates a Redis-backed refresh token store.
func NewRefreshTokenStore(cache *cache.Client) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{cache: cache}
}

type refreshRecord struct {
	UserID uint `json:"user_id"`
}

// Save stores a refresh token record with TTL.
func (s *RedisRefreshTokenStore) Save(ctx context.Context, jti string, userID uint, ttl time.Duration) error {
	payload, err := json.Marshal(refreshRecord{UserID: userID})
	if err != nil {
		return fmt.Errorf("marshal refresh record: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+jti, payload, ttl)
}

// Lookup returns the user id the token was issued to, or an error if the
// token is unknown or revoked.
func (s *RedisRefreshTokenStore) Lookup(ctx context.Context, jti string) (uint, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+jti)
	if err != nil || data == nil {
		return 0, fmt.Errorf("refresh token not found")
	}
	var rec refreshRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("unmarshal refresh record: %w", err)
	}
	return rec.UserID, nil
}

// Delete revokes a refresh token.
func (s *RedisRefreshTokenStore) Delete(ctx context.Context, jti string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+jti)
}
