package middleware

import (
	"errors"
	"net/http"

	"admin-panel/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler or gate as {"error", "message"}.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusNotFound {
				return c.Status(fe.Code).JSON(fiber.Map{
					"error":   string(apperr.NotFound),
					"message": "Route not found",
				})
			}
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":   http.StatusText(fe.Code),
				"message": fe.Message,
			})
		}

		kind := apperr.KindOf(err)
		if kind == apperr.StoreUnavailable {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(kind.Status()).JSON(apperr.Body(err))
	}
}
