package clients

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/upnext-app/go-server/internal/log"
)

// refreshEarly renews tokens a minute before upstream says they expire.
const refreshEarly = time.Minute

// tokenResponse is the OAuth2 client-credentials grant response shape shared by
// Spotify and Twitch.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenFunc fetches a fresh access token and its upstream lifetime.
type TokenFunc func(ctx context.Context) (token string, expiresIn time.Duration, err error)

// TokenCache memoizes a client-credentials access token until shortly before it
// expires. With Redis configured the token is shared across server instances;
// the mutex is held across the fetch, so at most one fetch is in flight per
// instance at a time.
type TokenCache struct {
	name   string
	fetch  TokenFunc
	redis  *redis.Client
	logger *log.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenCache creates a token cache named after the upstream it serves.
// rdb may be nil for purely in-process caching.
func NewTokenCache(name string, fetch TokenFunc, rdb *redis.Client, logger *log.Logger) *TokenCache {
	return &TokenCache{
		name:   name,
		fetch:  fetch,
		redis:  rdb,
		logger: logger,
	}
}

// Token returns a valid access token, fetching a new one only when the cached
// token is missing or within refreshEarly of expiring.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := time.Now()
	if tc.token != "" && now.Before(tc.expiry) {
		return tc.token, nil
	}

	key := "token:" + tc.name
	if tc.redis != nil {
		raw, err := tc.redis.Get(ctx, key).Result()
		switch {
		case err == nil && raw != "":
			if ttl, terr := tc.redis.TTL(ctx, key).Result(); terr == nil && ttl > 0 {
				tc.token, tc.expiry = raw, now.Add(ttl)
				return tc.token, nil
			}
		case err != nil && !errors.Is(err, redis.Nil):
			tc.logger.Warnf("Failed to read %s token from Redis: %v", tc.name, err)
		}
	}

	token, expiresIn, err := tc.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s token: %w", tc.name, err)
	}

	lifetime := expiresIn - refreshEarly
	tc.token = token
	tc.expiry = now.Add(lifetime)

	if tc.redis != nil && lifetime > 0 {
		if err := tc.redis.Set(ctx, key, token, lifetime).Err(); err != nil {
			tc.logger.Warnf("Failed to cache %s token in Redis: %v", tc.name, err)
		}
	}
	return token, nil
}
