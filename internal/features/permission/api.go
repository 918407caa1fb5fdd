package permission

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	controller *PermissionController
	gate       *middleware.Gatekeeper
}

func NewPermissionApi(controller *PermissionController, gate *middleware.Gatekeeper) *PermissionApi {
	return &PermissionApi{
		controller: controller,
		gate:       gate,
	}
}

func (h *PermissionApi) Setup(app *fiber.App) {
	perms := app.Group("/api/permissions")

	perms.Get("/", h.gate.RequirePermission("permissions.view"), h.controller.ListPermissions)
	perms.Get("/module/:moduleId", h.gate.RequirePermission("permissions.view"), h.controller.ListByModule)
	perms.Get("/:id", h.gate.RequirePermission("permissions.view"), h.controller.GetPermission)
	perms.Post("/", h.gate.RequirePermission("permissions.create"), h.controller.CreatePermission)
	perms.Put("/:id", h.gate.RequirePermission("permissions.update"), h.controller.UpdatePermission)
	perms.Delete("/:id", h.gate.RequirePermission("permissions.delete"), h.controller.DeletePermission)
}
