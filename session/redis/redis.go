// Package redis provides a Redis-backed token store for sessions shared
// between processes (for example CI jobs driving the same account).
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docuchat/docuchat-go/session"
)

// Store implements session.TokenStore using Redis. Both tokens are written
// and deleted in a single pipeline, so a reader never observes exactly one
// of the pair.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ session.TokenStore = (*Store)(nil)

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "docuchat:"
	TTL      time.Duration // Expiration for the session, default 0 (no expiration)
}

// NewStore creates a Redis-backed token store.
func NewStore(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "docuchat:"
	}

	return &Store{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *Store) accessKey() string  { return s.prefix + "access_token" }
func (s *Store) refreshKey() string { return s.prefix + "refresh_token" }
func (s *Store) typeKey() string    { return s.prefix + "token_type" }

// Save stores the token pair.
func (s *Store) Save(ctx context.Context, tokens *session.Tokens) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.accessKey(), tokens.AccessToken, s.ttl)
	pipe.Set(ctx, s.refreshKey(), tokens.RefreshToken, s.ttl)
	pipe.Set(ctx, s.typeKey(), tokens.TokenType, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

// Load retrieves the token pair.
func (s *Store) Load(ctx context.Context) (*session.Tokens, error) {
	values, err := s.client.MGet(ctx, s.accessKey(), s.refreshKey(), s.typeKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("load session from redis: %w", err)
	}

	access, ok := values[0].(string)
	if !ok || access == "" {
		return nil, session.ErrNoSession
	}

	tokens := &session.Tokens{AccessToken: access}
	if refresh, ok := values[1].(string); ok {
		tokens.RefreshToken = refresh
	}
	if tokenType, ok := values[2].(string); ok {
		tokens.TokenType = tokenType
	}
	return tokens, nil
}

// Clear removes the token pair.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.accessKey(), s.refreshKey(), s.typeKey()).Err(); err != nil {
		return fmt.Errorf("clear session from redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
