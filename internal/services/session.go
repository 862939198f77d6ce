package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

const (
	// DefaultSessionDuration is 7 days
	DefaultSessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for the user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionStore keeps server-side sessions in Redis. Each user holds at most
// one session: logging in again replaces the previous token.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionDuration
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// TTL is how long a session lives without being refreshed.
func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create stores a new session for the user and returns its token.
func (s *SessionStore) Create(ctx context.Context, user models.SessionUser) (string, error) {
	// Reset the timer: drop any existing session for this user
	if err := s.InvalidateUser(ctx, user.UserID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	payload, err := json.Marshal(user)
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, SessionKeyPrefix+token, payload, s.ttl)
	pipe.Set(ctx, UserSessionKeyPrefix+user.UserID.String(), token, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get returns the identity bound to token. ok is false for unknown or expired tokens.
func (s *SessionStore) Get(ctx context.Context, token string) (models.SessionUser, bool, error) {
	var user models.SessionUser
	if token == "" {
		return user, false, nil
	}

	raw, err := s.rdb.Get(ctx, SessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return user, false, nil
	}
	if err != nil {
		return user, false, fmt.Errorf("load session: %w", err)
	}
	if err := json.Unmarshal(raw, &user); err != nil || user.UserID == uuid.Nil {
		return models.SessionUser{}, false, nil
	}
	return user, true, nil
}

// Refresh extends the session by the full TTL from now.
func (s *SessionStore) Refresh(ctx context.Context, token string, userID uuid.UUID) error {
	pipe := s.rdb.TxPipeline()
	pipe.Expire(ctx, SessionKeyPrefix+token, s.ttl)
	pipe.Expire(ctx, UserSessionKeyPrefix+userID.String(), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate removes a session. Unknown tokens are not an error.
func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	user, ok, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	keys := []string{SessionKeyPrefix + token}
	if ok {
		keys = append(keys, UserSessionKeyPrefix+user.UserID.String())
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// InvalidateUser removes the user's current session, if any.
func (s *SessionStore) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	userKey := UserSessionKeyPrefix + userID.String()
	token, err := s.rdb.Get(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("load user session: %w", err)
	}
	keys := []string{userKey}
	if token != "" {
		keys = append(keys, SessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, keys...).Err()
}
