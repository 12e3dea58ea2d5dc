package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore keeps sessions in Redis with a TTL, so expiry needs no purger.
// Two keys per session: token -> username for lookup and username -> token so
// logout can drop the live token.
type SessionStore struct {
	client   *redis.Client
	sessionT time.Duration
}

// NewSessionStore wires a Redis-backed session store. Caller owns the client
// lifecycle.
func NewSessionStore(client *redis.Client, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionStore{client: client, sessionT: sessionTTL}
}

func (s *SessionStore) Save(ctx context.Context, username, token string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	if username == "" || token == "" {
		return errors.New("username and token are required")
	}
	if previous, err := s.client.Get(ctx, userKey(username)).Result(); err == nil && previous != "" {
		_ = s.client.Del(ctx, tokenKey(previous)).Err()
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token), username, s.sessionT)
	pipe.Set(ctx, userKey(username), token, s.sessionT)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Delete(ctx context.Context, username string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	token, err := s.client.Get(ctx, userKey(username)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := []string{userKey(username)}
	if token != "" {
		keys = append(keys, tokenKey(token))
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	if err := s.ensureClient(); err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ports.ErrSessionNotFound
	}
	username, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}

func tokenKey(token string) string { return "sessions:token:" + token }

func userKey(username string) string { return "sessions:user:" + username }
