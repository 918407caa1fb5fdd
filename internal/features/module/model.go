package module

import (
	"strings"

	"admin-panel/internal/common/apperr"
)

type CreateModuleRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"isActive"`
}

func (r *CreateModuleRequest) Normalize() error {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Description = strings.TrimSpace(r.Description)
	r.Icon = strings.TrimSpace(r.Icon)
	if r.Name == "" || r.DisplayName == "" {
		return apperr.ErrValidation("Module name and display name are required")
	}
	return nil
}

// UpdateModuleRequest is a partial update; nil fields are left unchanged.
type UpdateModuleRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"displayName"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"isActive"`
}
