// Package access resolves a user's live authorization graph (User -> Role -> Permissions)
// and holds the per-entity delete policies that protect that graph.
package access

import (
	"context"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repositories return (nil, nil) for an absent record and an *apperr.Error for store failures.

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type RoleFinder interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
}

type PermissionFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error)
}

type Resolver interface {
	// Resolve loads the user, its role, and the names of the role's active permissions.
	Resolve(ctx context.Context, userID string) (*models.Grant, error)
	// ResolveRole loads the user and its role without touching permissions.
	ResolveRole(ctx context.Context, userID string) (*models.User, *models.Role, error)
}

type GraphResolver struct {
	Users       UserFinder
	Roles       RoleFinder
	Permissions PermissionFinder
}

func NewGraphResolver(users UserFinder, roles RoleFinder, permissions PermissionFinder) Resolver {
	return &GraphResolver{
		Users:       users,
		Roles:       roles,
		Permissions: permissions,
	}
}

func (r *GraphResolver) ResolveRole(ctx context.Context, userID string) (*models.User, *models.Role, error) {
	user, err := r.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperr.ErrNoSuchUser()
	}
	if !user.HasRole() {
		return user, nil, apperr.ErrNoRoleAssigned()
	}

	role, err := r.Roles.FindByID(ctx, user.Role.Hex())
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return user, nil, apperr.ErrNoRoleAssigned()
	}
	return user, role, nil
}

func (r *GraphResolver) Resolve(ctx context.Context, userID string) (*models.Grant, error) {
	user, role, err := r.ResolveRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	grant := &models.Grant{
		User:        *user,
		Role:        *role,
		Permissions: make(map[string]struct{}, len(role.Permissions)),
	}
	if len(role.Permissions) == 0 {
		return grant, nil
	}

	// Ids that no longer resolve are simply absent from the result.
	perms, err := r.Permissions.FindByIDs(ctx, role.Permissions)
	if err != nil {
		return nil, err
	}
	for _, p := range perms {
		if p.IsActive {
			grant.Permissions[p.Name] = struct{}{}
		}
	}
	return grant, nil
}
