package category

import (
	"admin-panel/internal/common/apperr"
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CategoryController struct {
	Service CategoryService
}

func NewCategoryController(service CategoryService) *CategoryController {
	return &CategoryController{Service: service}
}

func ownerID(c *fiber.Ctx) string {
	return middleware.PrincipalFrom(c).UserID
}

// ListCategories godoc
// @Summary      List the caller's categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]models.Category
// @Failure      403  {object}  map[string]string
// @Router       /api/categories [get]
func (ctrl *CategoryController) ListCategories(c *fiber.Ctx) error {
	categories, err := ctrl.Service.ListCategories(c.UserContext(), ownerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategory godoc
// @Summary      Get one of the caller's categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Category id"
// @Success      200  {object}  map[string]models.Category
// @Failure      404  {object}  map[string]string
// @Router       /api/categories/{id} [get]
func (ctrl *CategoryController) GetCategory(c *fiber.Ctx) error {
	category, err := ctrl.Service.GetCategory(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"category": category})
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  CreateCategoryRequest  true  "Category"
// @Success      201  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/categories [post]
func (ctrl *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	category, err := ctrl.Service.CreateCategory(c.UserContext(), ownerID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string                 true  "Category id"
// @Param        input  body  UpdateCategoryRequest  true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/categories/{id} [put]
func (ctrl *CategoryController) UpdateCategory(c *fiber.Ctx) error {
	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrValidation("Invalid request body")
	}

	category, err := ctrl.Service.UpdateCategory(c.UserContext(), ownerID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Category id"
// @Success      200  {object}  map[string]string
// @Router       /api/categories/{id} [delete]
func (ctrl *CategoryController) DeleteCategory(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteCategory(c.UserContext(), ownerID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
