// Package session resolves bearer tokens minted by the external identity
// provider. The provider writes a JSON identity under session:<token>; this
// package only reads it back — no independent verification happens here.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitcheck/wardrobe-server/internal/cache"
)

// ErrNoSession means the token is unknown or expired.
var ErrNoSession = errors.New("no such session")

// TTL is refreshed on every successful resolve, so active users stay
// signed in.
const TTL = 24 * time.Hour

// Identity is the payload the identity provider stores per session.
type Identity struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type Store struct {
	cache *cache.RedisCache
}

func NewStore(c *cache.RedisCache) *Store {
	return &Store{cache: c}
}

// Resolve looks up the identity behind a bearer token.
func (s *Store) Resolve(ctx context.Context, token string) (Identity, error) {
	var ident Identity
	if token == "" {
		return ident, ErrNoSession
	}

	key := cache.KeyForSession(token)
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return ident, ErrNoSession
	}
	if err != nil {
		return ident, err
	}

	if err := json.Unmarshal([]byte(raw), &ident); err != nil || ident.UserID == "" {
		return Identity{}, ErrNoSession
	}

	_ = s.cache.Expire(ctx, key, TTL)
	return ident, nil
}

// Put stores a session. In production the identity provider owns this path;
// the server uses it for seeding demo sessions and in tests.
func (s *Store) Put(ctx context.Context, token string, ident Identity) error {
	raw, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cache.KeyForSession(token), raw, TTL)
}
