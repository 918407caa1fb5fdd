package role

import (
	"strings"

	"admin-panel/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"isActive"`
	Permissions []string `json:"permissions"`
}

func (r *CreateRoleRequest) Normalize() error {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" {
		return apperr.ErrValidation("Role name is required")
	}
	return nil
}

// UpdateRoleRequest is a partial update. A non-nil Permissions replaces the whole list.
type UpdateRoleRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"isActive"`
	Permissions *[]string `json:"permissions"`
}

// RoleSummary is the dropdown shape of an active role.
type RoleSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// parsePermissionIDs keeps order and duplicates. Ids are not checked for existence.
func parsePermissionIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			return nil, apperr.ErrValidation("Invalid permission id: " + id)
		}
		out = append(out, oid)
	}
	return out, nil
}
