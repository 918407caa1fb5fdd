package user

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	gate       *middleware.Gatekeeper
}

func NewUserApi(controller *UserController, gate *middleware.Gatekeeper) *UserApi {
	return &UserApi{
		controller: controller,
		gate:       gate,
	}
}

// Setup registers user routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users")

	// Registered before /:id so "roles" is not taken as an id.
	users.Get("/roles", h.gate.RequirePermission("users.view"), h.controller.AvailableRoles)

	users.Get("/", h.gate.RequirePermission("users.view"), h.controller.ListUsers)
	users.Get("/:id", h.gate.RequirePermission("users.view"), h.controller.GetUser)
	users.Post("/", h.gate.RequirePermission("users.create"), h.controller.CreateUser)
	users.Put("/:id", h.gate.RequirePermission("users.update"), h.controller.UpdateUser)
	users.Delete("/:id", h.gate.RequirePermission("users.delete"), h.controller.DeleteUser)
}
