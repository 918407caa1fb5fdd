package permission

import (
	"strings"
	"time"

	"admin-panel/internal/common/apperr"
	common_models "admin-panel/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreatePermissionRequest struct {
	Name        string `json:"name"`
	Module      string `json:"module"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (r *CreatePermissionRequest) Normalize() error {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	r.Module = strings.TrimSpace(r.Module)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" || r.Module == "" {
		return apperr.ErrValidation("Permission name and module are required")
	}
	return nil
}

// UpdatePermissionRequest is a partial update; nil fields are left unchanged.
type UpdatePermissionRequest struct {
	Name        *string `json:"name"`
	Module      *string `json:"module"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type ModuleRef struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	DisplayName string             `json:"displayName"`
}

// PermissionView is a permission with its module populated. Module is null when the
// referenced module no longer exists.
type PermissionView struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Module      *ModuleRef         `json:"module"`
	Description string             `json:"description"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func newView(p common_models.Permission, m *common_models.Module) PermissionView {
	v := PermissionView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if m != nil {
		v.Module = &ModuleRef{ID: m.ID, Name: m.Name, DisplayName: m.DisplayName}
	}
	return v
}
