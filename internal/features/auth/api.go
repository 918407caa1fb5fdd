package auth

import (
	"admin-panel/internal/middleware"
	"admin-panel/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthApi struct {
	controller *AuthController
	gate       *middleware.Gatekeeper
	limiter    *ratelimit.Limiter
	logger     *zap.Logger
}

func NewAuthApi(controller *AuthController, gate *middleware.Gatekeeper, limiter *ratelimit.Limiter, logger *zap.Logger) *AuthApi {
	return &AuthApi{
		controller: controller,
		gate:       gate,
		limiter:    limiter,
		logger:     logger,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/api/auth")

	// Public routes
	auth.Post("/register", h.controller.Register)
	auth.Post("/login", middleware.LoginRateLimit(h.limiter, h.logger), h.controller.Login)

	auth.Get("/me", h.gate.Authenticate(), h.controller.Me)
}
