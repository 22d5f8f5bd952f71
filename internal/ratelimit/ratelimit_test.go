package ratelimit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/docboard/internal/ratelimit"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	_, client := newRedisClient(t)
	limiter := ratelimit.NewLimiter(client, 3, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow(ctx, "login:10.0.0.1")
		assert.True(t, allowed, "attempt %d", i+1)
	}

	allowed, retryAfter := limiter.Allow(ctx, "login:10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	mr, client := newRedisClient(t)
	limiter := ratelimit.NewLimiter(client, 2, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _ := limiter.Allow(ctx, "login:10.0.0.1")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow(ctx, "login:10.0.0.1")
	require.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)

	allowed, _ = limiter.Allow(ctx, "login:10.0.0.1")
	assert.True(t, allowed)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	_, client := newRedisClient(t)
	limiter := ratelimit.NewLimiter(client, 1, time.Minute, zap.NewNop())
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "login:10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "login:10.0.0.1")
	require.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "login:10.0.0.2")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "register:10.0.0.1")
	assert.True(t, allowed)
}

func TestLimiterFailsOpenWhenRedisIsDown(t *testing.T) {
	mr, client := newRedisClient(t)
	limiter := ratelimit.NewLimiter(client, 1, time.Minute, zap.NewNop())
	mr.Close()

	// Login must keep working when the limiter store is unreachable.
	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow(context.Background(), "login:10.0.0.1")
		assert.True(t, allowed)
	}
}

func TestLimiterDisabled(t *testing.T) {
	ctx := context.Background()

	var nilLimiter *ratelimit.Limiter
	allowed, _ := nilLimiter.Allow(ctx, "anything")
	assert.True(t, allowed)

	noClient := ratelimit.NewLimiter(nil, 5, time.Minute, zap.NewNop())
	allowed, _ = noClient.Allow(ctx, "anything")
	assert.True(t, allowed)

	_, client := newRedisClient(t)
	noLimit := ratelimit.NewLimiter(client, 0, time.Minute, zap.NewNop())
	allowed, _ = noLimit.Allow(ctx, "anything")
	assert.True(t, allowed)
}

func TestLimiterMiddleware(t *testing.T) {
	_, client := newRedisClient(t)
	limiter := ratelimit.NewLimiter(client, 2, time.Minute, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := errorutil.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error": fiber.Map{"code": domainErr.Code},
			})
		},
	})
	app.Post("/login", limiter.Middleware("login"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestLimiterMiddlewareKeysByEmail(t *testing.T) {
	_, client := newRedisClient(t)
	limiter := ratelimit.NewLimiter(client, 1, time.Minute, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(errorutil.ToDomainError(err).HTTPStatus)
		},
	})
	app.Post("/login", limiter.Middleware("login"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	attempt := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	require.Equal(t, http.StatusOK, attempt(`{"email":"alice@example.com"}`))
	require.Equal(t, http.StatusTooManyRequests, attempt(`{"email":"alice@example.com"}`))

	// A sibling account behind the same IP still has its own window.
	assert.Equal(t, http.StatusOK, attempt(`{"email":"bob@example.com"}`))

	// Case and surrounding whitespace collapse onto one account key.
	assert.Equal(t, http.StatusTooManyRequests, attempt(`{"email":" ALICE@example.com "}`))

	// Unparsable bodies share the bare IP window.
	require.Equal(t, http.StatusOK, attempt(`{not json`))
	assert.Equal(t, http.StatusTooManyRequests, attempt(`broken again`))
}
