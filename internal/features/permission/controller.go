package permission

import (
	"admin-panel/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type PermissionController struct {
	Service PermissionService
}

func NewPermissionController(service PermissionService) *PermissionController {
	return &PermissionController{Service: service}
}

// ListPermissions godoc
// @Summary      List permissions with their module
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]PermissionView
// @Router       /api/permissions [get]
func (ctrl *PermissionController) ListPermissions(c *fiber.Ctx) error {
	perms, err := ctrl.Service.ListPermissions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"permissions": perms})
}

// ListByModule godoc
// @Summary      List active permissions of a module
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        moduleId  path  string  true  "Module id"
// @Success      200  {object}  map[string][]PermissionView
// @Failure      404  {object}  map[string]string
// @Router       /api/permissions/module/{moduleId} [get]
func (ctrl *PermissionController) ListByModule(c *fiber.Ctx) error {
	perms, err := ctrl.Service.ListByModule(c.UserContext(), c.Params("moduleId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"permissions": perms})
}

// GetPermission godoc
// @Summary      Get a permission
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Permission id"
// @Success      200  {object}  map[string]PermissionView
// @Failure      404  {object}  map[string]string
// @Router       /api/permissions/{id} [get]
func (ctrl *PermissionController) GetPermission(c *fiber.Ctx) error {
	p, err := ctrl.Service.GetPermission(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"permission": p})
}

// CreatePermission godoc
// @Summary      Create a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  CreatePermissionRequest  true  "Permission"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string  "Module not found"
// @Failure      409  {object}  map[string]string
// @Router       /api/permissions [post]
func (ctrl *PermissionController) CreatePermission(c *fiber.Ctx) error {
	var req CreatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	p, err := ctrl.Service.CreatePermission(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Permission created successfully",
		"permission": p,
	})
}

// UpdatePermission godoc
// @Summary      Update a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string                   true  "Permission id"
// @Param        input  body  UpdatePermissionRequest  true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/permissions/{id} [put]
func (ctrl *PermissionController) UpdatePermission(c *fiber.Ctx) error {
	var req UpdatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	p, err := ctrl.Service.UpdatePermission(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Permission updated successfully",
		"permission": p,
	})
}

// DeletePermission godoc
// @Summary      Delete a permission
// @Description  Roles that still list the permission are left as they are.
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Permission id"
// @Success      200  {object}  map[string]string
// @Router       /api/permissions/{id} [delete]
func (ctrl *PermissionController) DeletePermission(c *fiber.Ctx) error {
	if err := ctrl.Service.DeletePermission(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Permission deleted successfully"})
}
