package withdrawal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionState is the explicit OTP flow state. A session only exists between
// initiate and verify; idle is the absence of a session.
type SessionState string

const (
	SessionAwaitingOTP SessionState = "awaiting_otp"
	SessionSubmitting  SessionState = "submitting"
)

// Session is the ephemeral OTP record held in Redis for a single withdrawal
// attempt. The raw code is never stored, only its hash.
type Session struct {
	MessageID   string       `json:"messageId"`
	CodeHash    string       `json:"codeHash"`
	Amount      int64        `json:"amount"`
	MethodID    string       `json:"methodId"`
	MaskedPhone string       `json:"maskedPhone"`
	State       SessionState `json:"state"`
	Attempts    int          `json:"attempts"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// ErrSessionNotFound indicates there is no live session for the user.
var ErrSessionNotFound = errors.New("otp session not found")

// OTPStore keeps at most one live session per user.
type OTPStore interface {
	Put(ctx context.Context, userID string, session Session, ttl time.Duration) error
	Update(ctx context.Context, userID string, session Session) error
	Get(ctx context.Context, userID string) (Session, error)
	Delete(ctx context.Context, userID string) error
}

const otpKeyPrefix = "withdraw:otp:"

// RedisOTPStore stores sessions in Redis with the OTP TTL, so expiry needs no
// sweeper.
type RedisOTPStore struct {
	cache *redis.Client
}

// NewRedisOTPStore builds a Redis-backed OTP store.
func NewRedisOTPStore(cache *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{cache: cache}
}

// Put writes the session, replacing any previous one for the user.
func (s *RedisOTPStore) Put(ctx context.Context, userID string, session Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, otpKeyPrefix+userID, payload, ttl).Err()
}

// Update rewrites the session keeping the remaining TTL.
func (s *RedisOTPStore) Update(ctx context.Context, userID string, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, otpKeyPrefix+userID, payload, redis.KeepTTL).Err()
}

// Get fetches the live session for the user.
func (s *RedisOTPStore) Get(ctx context.Context, userID string) (Session, error) {
	payload, err := s.cache.Get(ctx, otpKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Delete removes the session, if any.
func (s *RedisOTPStore) Delete(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, otpKeyPrefix+userID).Err()
}
