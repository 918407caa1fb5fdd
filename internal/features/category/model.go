package category

import (
	"strings"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
)

const (
	defaultIcon  = "mdi-tag"
	defaultColor = "#2196F3"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

func (r *CreateCategoryRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" || r.Type == "" {
		return apperr.ErrValidation("Name and type are required")
	}
	if err := validateType(r.Type); err != nil {
		return err
	}
	r.Icon = orDefault(r.Icon, defaultIcon)
	r.Color = orDefault(r.Color, defaultColor)
	return nil
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

func validateType(t string) error {
	if t != models.CategoryTypeIncome && t != models.CategoryTypeExpense {
		return apperr.ErrValidation("Type must be either income or expense")
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
