// Package ratelimit provides a fixed-window request limiter backed by Redis.
package ratelimit

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

const keyPrefix = "ratelimit:"

// Limiter counts requests per key in fixed windows. An unreachable Redis
// fails open: authentication must keep working when the limiter store is
// down.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLimiter builds a limiter allowing limit requests per window.
func NewLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow counts one attempt against key's current window. retryAfter is
// meaningful only when allowed is false.
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration) {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true, 0
	}

	redisKey := keyPrefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		}
		return true, 0
	}
	if count == 1 {
		// First hit opens the window.
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
	}
	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl
	}
	return true, 0
}

// Middleware limits requests per client IP under the given scope. When the
// body carries an email, the key includes it so one address cannot exhaust
// the window for every account behind a shared IP.
func (l *Limiter) Middleware(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := scope + ":" + c.IP()
		if email := credentialEmail(c.Body()); email != "" {
			key += ":" + email
		}
		allowed, retryAfter := l.Allow(c.UserContext(), key)
		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
			return errorutil.NewTooManyRequests("too many requests", map[string]any{
				"retry_after_seconds": seconds,
			})
		}
		return c.Next()
	}
}

// credentialEmail extracts the email field from a login or registration
// body. Anything unparsable counts against the IP-only key.
func credentialEmail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}
