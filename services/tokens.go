package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"accountant-api/utils"
)

const (
	verificationTTL = 30 * time.Minute
	resetCodeTTL    = 5 * time.Hour
	blacklistTTL    = utils.RefreshTokenTTL // outlive the longest-lived token
)

// TokenStore keeps the short-lived token bookkeeping in redis: revoked
// bearer tokens, e-mail verification tokens and password reset codes.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func blacklistKey(token string) string    { return "black-list-token-" + token }
func verificationKey(token string) string { return "verification-token-" + token }
func resetKey(code string) string         { return "forget-key-" + code }

// Blacklist revokes the given tokens until they would have expired anyway.
func (s *TokenStore) Blacklist(ctx context.Context, tokens ...string) error {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if err := s.rdb.Set(ctx, blacklistKey(token), token, blacklistTTL).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *TokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := s.rdb.Get(ctx, blacklistKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *TokenStore) AddVerificationToken(ctx context.Context, token, userID string) error {
	return s.rdb.Set(ctx, verificationKey(token), userID, verificationTTL).Err()
}

// ConsumeVerificationToken returns the user the token was issued for and
// deletes it, so a token verifies exactly once.
func (s *TokenStore) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, verificationKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *TokenStore) AddResetCode(ctx context.Context, code, email string) error {
	return s.rdb.Set(ctx, resetKey(code), email, resetCodeTTL).Err()
}

func (s *TokenStore) ConsumeResetCode(ctx context.Context, code string) (string, error) {
	email, err := s.rdb.GetDel(ctx, resetKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
