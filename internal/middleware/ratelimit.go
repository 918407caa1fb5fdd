package middleware

import (
	"strconv"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoginRateLimit throttles failed logins by client IP; successful logins are not counted.
// Behind a proxy, c.IP() only sees the client when fiber.Config.ProxyHeader is set.
// Redis failures let the request through.
func LoginRateLimit(limiter *ratelimit.Limiter, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		key := "login:" + c.IP()
		over, err := limiter.Exceeded(c.UserContext(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
		}
		if over {
			retry := limiter.Retry(c.UserContext(), key)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Seconds())))
			return apperr.New(apperr.RateLimited, "Too many login attempts, please try again later")
		}

		err = c.Next()
		if apperr.KindOf(err) == apperr.InvalidCredentials {
			if ferr := limiter.Fail(c.UserContext(), key); ferr != nil {
				logger.Warn("rate limiter unavailable", zap.Error(ferr))
			}
		}
		return err
	}
}
