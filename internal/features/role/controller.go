package role

import (
	"admin-panel/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	Service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{Service: service}
}

// ListRoles godoc
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]models.Role
// @Router       /api/roles [get]
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.Service.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"roles": roles})
}

// ListActiveRoles godoc
// @Summary      List active roles (id and name)
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]RoleSummary
// @Router       /api/roles/active [get]
func (ctrl *RoleController) ListActiveRoles(c *fiber.Ctx) error {
	roles, err := ctrl.Service.ListActiveRoles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"roles": roles})
}

// GetRole godoc
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Role id"
// @Success      200  {object}  map[string]models.Role
// @Failure      404  {object}  map[string]string
// @Router       /api/roles/{id} [get]
func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	role, err := ctrl.Service.GetRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"role": role})
}

// CreateRole godoc
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  CreateRoleRequest  true  "Role"
// @Success      201  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/roles [post]
func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	role, err := ctrl.Service.CreateRole(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Role created successfully",
		"role":    role,
	})
}

// UpdateRole godoc
// @Summary      Update a role
// @Description  permissions, when present, replaces the whole list.
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string             true  "Role id"
// @Param        input  body  UpdateRoleRequest  true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/roles/{id} [put]
func (ctrl *RoleController) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	role, err := ctrl.Service.UpdateRole(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
		"role":    role,
	})
}

// DeleteRole godoc
// @Summary      Delete a role
// @Description  Refused with 409 while users hold the role.
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Role id"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/roles/{id} [delete]
func (ctrl *RoleController) DeleteRole(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteRole(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}
