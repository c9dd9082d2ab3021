// Package customdict stores user-supplied dictionary words in Redis.
//
// Words live in a single Redis set. They are merged into the language
// model vocabulary when a model is built; corrections never consult the
// store directly.
package customdict

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "custom_dict"

// Store keeps the custom dictionary in a Redis set.
type Store struct {
	client *redis.Client
	key    string
}

// Option is a functional option for [New].
type Option func(*Store)

// WithKey overrides the Redis key holding the dictionary set. Empty
// keys are ignored.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a Store on top of an existing Redis client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, key: defaultKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key the dictionary is stored under.
func (s *Store) Key() string { return s.key }

// Add inserts words into the dictionary. Adding a word twice is a
// no-op.
func (s *Store) Add(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	if err := s.client.SAdd(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("customdict: add words: %w", err)
	}
	return nil
}

// Remove deletes words from the dictionary. Unknown words are ignored.
func (s *Store) Remove(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	if err := s.client.SRem(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("customdict: remove words: %w", err)
	}
	return nil
}

// Words returns every dictionary word in sorted order.
func (s *Store) Words(ctx context.Context) ([]string, error) {
	words, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("customdict: list words: %w", err)
	}
	slices.Sort(words)
	return words, nil
}

// Ping verifies the Redis connection. Readiness checks use it to
// report dictionary availability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("customdict: ping: %w", err)
	}
	return nil
}
