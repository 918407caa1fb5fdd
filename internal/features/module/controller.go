package module

import (
	"admin-panel/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type ModuleController struct {
	Service ModuleService
}

func NewModuleController(service ModuleService) *ModuleController {
	return &ModuleController{
		Service: service,
	}
}

// ListModules godoc
// @Summary      List modules
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]models.Module
// @Router       /api/modules [get]
func (ctrl *ModuleController) ListModules(c *fiber.Ctx) error {
	modules, err := ctrl.Service.ListModules(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"modules": modules})
}

// ListActiveModules godoc
// @Summary      List active modules
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]models.Module
// @Router       /api/modules/active/list [get]
func (ctrl *ModuleController) ListActiveModules(c *fiber.Ctx) error {
	modules, err := ctrl.Service.ListActiveModules(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"modules": modules})
}

// GetModule godoc
// @Summary      Get a module
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Module id"
// @Success      200  {object}  map[string]models.Module
// @Failure      404  {object}  map[string]string
// @Router       /api/modules/{id} [get]
func (ctrl *ModuleController) GetModule(c *fiber.Ctx) error {
	m, err := ctrl.Service.GetModule(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"module": m})
}

// CreateModule godoc
// @Summary      Create a module
// @Tags         modules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  CreateModuleRequest  true  "Module"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/modules [post]
func (ctrl *ModuleController) CreateModule(c *fiber.Ctx) error {
	var req CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	m, err := ctrl.Service.CreateModule(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Module created successfully",
		"module":  m,
	})
}

// UpdateModule godoc
// @Summary      Update a module
// @Tags         modules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string               true  "Module id"
// @Param        input  body  UpdateModuleRequest  true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/modules/{id} [put]
func (ctrl *ModuleController) UpdateModule(c *fiber.Ctx) error {
	var req UpdateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	m, err := ctrl.Service.UpdateModule(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Module updated successfully",
		"module":  m,
	})
}

// DeleteModule godoc
// @Summary      Delete a module
// @Description  Refused with 409 while permissions reference the module.
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Module id"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/modules/{id} [delete]
func (ctrl *ModuleController) DeleteModule(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteModule(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Module deleted successfully",
	})
}
