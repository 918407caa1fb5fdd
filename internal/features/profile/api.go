package profile

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProfileApi struct {
	controller *ProfileController
	gate       *middleware.Gatekeeper
}

func NewProfileApi(controller *ProfileController, gate *middleware.Gatekeeper) *ProfileApi {
	return &ProfileApi{
		controller: controller,
		gate:       gate,
	}
}

func (h *ProfileApi) Setup(app *fiber.App) {
	profile := app.Group("/api/profile")

	profile.Get("/", h.gate.RequirePermission("profile.view"), h.controller.GetProfile)
	profile.Put("/", h.gate.RequirePermission("profile.update"), h.controller.UpdateProfile)
	profile.Put("/password", h.gate.RequirePermission("profile.updatePassword"), h.controller.ChangePassword)
}
