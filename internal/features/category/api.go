package category

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CategoryApi struct {
	controller *CategoryController
	gate       *middleware.Gatekeeper
}

func NewCategoryApi(controller *CategoryController, gate *middleware.Gatekeeper) *CategoryApi {
	return &CategoryApi{
		controller: controller,
		gate:       gate,
	}
}

// Setup registers category routes. They are gated on the literal role name "user", not on a permission.
func (h *CategoryApi) Setup(app *fiber.App) {
	categories := app.Group("/api/categories", h.gate.RequireRoleName("user"))

	categories.Get("/", h.controller.ListCategories)
	categories.Get("/:id", h.controller.GetCategory)
	categories.Post("/", h.controller.CreateCategory)
	categories.Put("/:id", h.controller.UpdateCategory)
	categories.Delete("/:id", h.controller.DeleteCategory)
}
