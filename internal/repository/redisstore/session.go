// Package redisstore keeps sessions in Redis so several processes can share
// one login state.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore implements repository.SessionRepository on Redis. Each session
// is one string key holding the user id.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore connects to redisURL and checks the connection.
func NewSessionStore(ctx context.Context, redisURL string) (*SessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewSessionStoreWithClient(client), nil
}

// NewSessionStoreWithClient wraps an existing client.
func NewSessionStoreWithClient(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, prefix: sessionPrefix}
}

func (s *SessionStore) key(token string) string {
	return s.prefix + token
}

func (s *SessionStore) Save(ctx context.Context, token string, userID int, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(token), strconv.Itoa(userID), ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (int, bool, error) {
	val, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup session: %w", err)
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("decode session %q: %w", val, err)
	}
	return userID, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

// Clear deletes every key under the session prefix. Keys of other
// applications sharing the database are left alone.
func (s *SessionStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clear session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}
