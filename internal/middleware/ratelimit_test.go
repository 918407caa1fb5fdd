package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/ratelimit"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLoginApp(t *testing.T, limit int64, cfg fiber.Config) *fiber.App {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg.ErrorHandler = ErrorHandler(zap.NewNop())
	app := fiber.New(cfg)
	app.Post("/login", LoginRateLimit(ratelimit.New(client, limit, time.Minute), zap.NewNop()), func(c *fiber.Ctx) error {
		if c.Get("X-Password") != "ok" {
			return apperr.ErrInvalidCredentials()
		}
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func login(t *testing.T, app *fiber.App, password string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Password", password)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLoginRateLimitCountsFailures(t *testing.T) {
	app := newLoginApp(t, 2, fiber.Config{})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, login(t, app, "bad", nil).StatusCode)
	}
	resp := login(t, app, "ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "locked out even with the right password")
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestLoginRateLimitIgnoresSuccesses(t *testing.T) {
	app := newLoginApp(t, 2, fiber.Config{})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, login(t, app, "ok", nil).StatusCode)
	}
	assert.Equal(t, http.StatusUnauthorized, login(t, app, "bad", nil).StatusCode)
}

func TestLoginRateLimitKeysOnProxyHeader(t *testing.T) {
	app := newLoginApp(t, 1, fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor})
	first := map[string]string{fiber.HeaderXForwardedFor: "10.0.0.1"}
	second := map[string]string{fiber.HeaderXForwardedFor: "10.0.0.2"}

	assert.Equal(t, http.StatusUnauthorized, login(t, app, "bad", first).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, login(t, app, "bad", first).StatusCode)
	assert.Equal(t, http.StatusNoContent, login(t, app, "ok", second).StatusCode, "clients behind one proxy are counted apart")
}

func TestLoginRateLimitDisabled(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(nil, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
}
