package role

import (
	"context"
	"strings"
	"time"

	"admin-panel/internal/common/apperr"
	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const auditModule = "role"

type RoleService interface {
	CreateRole(ctx context.Context, req CreateRoleRequest) (*common_models.Role, error)
	GetRole(ctx context.Context, id string) (*common_models.Role, error)
	ListRoles(ctx context.Context) ([]common_models.Role, error)
	ListActiveRoles(ctx context.Context) ([]RoleSummary, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*common_models.Role, error)
	DeleteRole(ctx context.Context, id string) error
}

type RoleServiceImpl struct {
	RoleRepo     RoleRepository
	Guard        *access.Guard
	AuditService audit.AuditService
}

func NewRoleService(roleRepo RoleRepository, guard *access.Guard, auditService audit.AuditService) RoleService {
	return &RoleServiceImpl{
		RoleRepo:     roleRepo,
		Guard:        guard,
		AuditService: auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, req CreateRoleRequest) (*common_models.Role, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	perms, err := parsePermissionIDs(req.Permissions)
	if err != nil {
		return nil, err
	}

	existing, err := s.RoleRepo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateKey("name", nil)
	}

	now := time.Now()
	role := &common_models.Role{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, auditModule, role.ID.Hex(), map[string]common_models.Change{
		"name":        {New: role.Name},
		"permissions": {New: role.Permissions},
	})
	return role, nil
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id string) (*common_models.Role, error) {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperr.ErrNotFound("Role")
	}
	return role, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]common_models.Role, error) {
	return s.RoleRepo.List(ctx, false)
}

func (s *RoleServiceImpl) ListActiveRoles(ctx context.Context) ([]RoleSummary, error) {
	roles, err := s.RoleRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]RoleSummary, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleSummary{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*common_models.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]common_models.Change{}

	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name != "" && name != role.Name {
			existing, err := s.RoleRepo.FindByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.ErrDuplicateKey("name", nil)
			}
			changes["name"] = common_models.Change{Old: role.Name, New: name}
			role.Name = name
		}
	}
	if req.Description != nil {
		role.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil && *req.IsActive != role.IsActive {
		changes["isActive"] = common_models.Change{Old: role.IsActive, New: *req.IsActive}
		role.IsActive = *req.IsActive
	}
	if req.Permissions != nil {
		perms, err := parsePermissionIDs(*req.Permissions)
		if err != nil {
			return nil, err
		}
		changes["permissions"] = common_models.Change{Old: role.Permissions, New: perms}
		role.Permissions = perms
	}
	role.UpdatedAt = time.Now()

	if err := s.RoleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, auditModule, id, changes)
	return role, nil
}

// DeleteRole is refused while any user still holds the role.
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Guard.CheckDelete(ctx, access.EntityRole, id); err != nil {
		return err
	}

	deleted, err := s.RoleRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFound("Role")
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionDelete, auditModule, id, map[string]common_models.Change{
		"name": {Old: role.Name},
	})
	return nil
}
