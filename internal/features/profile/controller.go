package profile

import (
	"admin-panel/internal/common/apperr"
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProfileController struct {
	Service ProfileService
}

func NewProfileController(service ProfileService) *ProfileController {
	return &ProfileController{Service: service}
}

// GetProfile godoc
// @Summary      Current user's profile with effective permissions
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Router       /api/profile [get]
func (ctrl *ProfileController) GetProfile(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	view, err := ctrl.Service.GetProfile(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(ProfileResponse{User: *view, Permissions: principal.EffectivePermissions})
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  UpdateProfileRequest  true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/profile [put]
func (ctrl *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	view, err := ctrl.Service.UpdateProfile(c.UserContext(), middleware.PrincipalFrom(c).UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    view,
	})
}

// ChangePassword godoc
// @Summary      Change the current user's password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  ChangePasswordRequest  true  "Current and new password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/profile/password [put]
func (ctrl *ProfileController) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	if err := ctrl.Service.ChangePassword(c.UserContext(), middleware.PrincipalFrom(c).UserID, req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
