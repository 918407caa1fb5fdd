package role

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	gate       *middleware.Gatekeeper
}

func NewRoleApi(controller *RoleController, gate *middleware.Gatekeeper) *RoleApi {
	return &RoleApi{
		controller: controller,
		gate:       gate,
	}
}

// Setup registers role routes
func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles")

	roles.Get("/", h.gate.RequirePermission("roles.view"), h.controller.ListRoles)
	roles.Get("/active", h.gate.RequirePermission("roles.view"), h.controller.ListActiveRoles)
	roles.Get("/:id", h.gate.RequirePermission("roles.view"), h.controller.GetRole)
	roles.Post("/", h.gate.RequirePermission("roles.create"), h.controller.CreateRole)
	roles.Put("/:id", h.gate.RequirePermission("roles.update"), h.controller.UpdateRole)
	roles.Delete("/:id", h.gate.RequirePermission("roles.delete"), h.controller.DeleteRole)
}
