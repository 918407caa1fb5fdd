package module

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ModuleApi struct {
	controller *ModuleController
	gate       *middleware.Gatekeeper
}

func NewModuleApi(controller *ModuleController, gate *middleware.Gatekeeper) *ModuleApi {
	return &ModuleApi{
		controller: controller,
		gate:       gate,
	}
}

// Setup registers module routes
func (h *ModuleApi) Setup(app *fiber.App) {
	modules := app.Group("/api/modules")

	modules.Get("/", h.gate.RequirePermission("modules.view"), h.controller.ListModules)
	modules.Get("/active/list", h.gate.RequirePermission("modules.view"), h.controller.ListActiveModules)
	modules.Get("/:id", h.gate.RequirePermission("modules.view"), h.controller.GetModule)
	modules.Post("/", h.gate.RequirePermission("modules.create"), h.controller.CreateModule)
	modules.Put("/:id", h.gate.RequirePermission("modules.update"), h.controller.UpdateModule)
	modules.Delete("/:id", h.gate.RequirePermission("modules.delete"), h.controller.DeleteModule)
}
