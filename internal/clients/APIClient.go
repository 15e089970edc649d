package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/upnext-app/go-server/internal/log"
)

const (
	defaultTimeout  = 30 * time.Second
	searchCacheTTL  = 4 * time.Hour
	detailsCacheTTL = 24 * time.Hour
)

// ErrNotFound is returned when the upstream API has no record for the given id.
var ErrNotFound = errors.New("media not found upstream")

// apiClient is the plumbing shared by the external media clients: a tuned HTTP
// client, a client-side rate limiter and optional Redis response caching.
type apiClient struct {
	http    *http.Client
	limiter *rate.Limiter
	redis   *redis.Client
	logger  *log.Logger
}

func newAPIClient(httpClient *http.Client, limiter *rate.Limiter, rdb *redis.Client, logger *log.Logger) apiClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(4), 8)
	}
	return apiClient{http: httpClient, limiter: limiter, redis: rdb, logger: logger}
}

// doJSON waits for the rate limiter, performs the request and decodes the JSON
// response body into out.
func (c *apiClient) doJSON(ctx context.Context, req *http.Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// fromCache loads a cached response into out. Returns false on a miss or when
// Redis is not configured.
func (c *apiClient) fromCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil {
		return false
	}

	raw, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnf("Failed to read %s from Redis: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.Warnf("Failed to unmarshal cached %s: %v", key, err)
		return false
	}
	return true
}

func (c *apiClient) storeCache(ctx context.Context, key string, v any, ttl time.Duration) {
	if c.redis == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warnf("Failed to cache %s: %v", key, err)
	}
}
