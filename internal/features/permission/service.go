package permission

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

const auditModule = "permission"

type ModuleLookup interface {
	FindByID(ctx context.Context, id string) (*common_models.Module, error)
	List(ctx context.Context, activeOnly bool) ([]common_models.Module, error)
}

type PermissionService interface {
	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionView, error)
	GetPermission(ctx context.Context, id string) (*PermissionView, error)
	ListPermissions(ctx context.Context) ([]PermissionView, error)
	ListByModule(ctx context.Context, moduleID string) ([]PermissionView, error)
	UpdatePermission(ctx context.Context, id string, req UpdatePermissionRequest) (*PermissionView, error)
	DeletePermission(ctx context.Context, id string) error
}

type PermissionServiceImpl struct {
	Repo         PermissionRepository
	Modules      ModuleLookup
	Guard        *access.Guard
	AuditService audit.AuditService
}

func NewPermissionService(repo PermissionRepository, modules ModuleLookup, guard *access.Guard, auditService audit.AuditService) PermissionService {
	return &PermissionServiceImpl{
		Repo:         repo,
		Modules:      modules,
		Guard:        guard,
		AuditService: auditService,
	}
}

func (s *PermissionServiceImpl) requireModule(ctx context.Context, id string) (*common_models.Module, error) {
	m, err := s.Modules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.ErrNotFound("Module")
	}
	return m, nil
}

func (s *PermissionServiceImpl) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionView, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	m, err := s.requireModule(ctx, req.Module)
	if err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateKey("name", nil)
	}

	now := time.Now()
	p := &common_models.Permission{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Module:      m.ID,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, auditModule, p.ID.Hex(), map[string]common_models.Change{
		"name":   {New: p.Name},
		"module": {New: m.Name},
	})
	v := newView(*p, m)
	return &v, nil
}

func (s *PermissionServiceImpl) find(ctx context.Context, id string) (*common_models.Permission, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound("Permission")
	}
	return p, nil
}

func (s *PermissionServiceImpl) GetPermission(ctx context.Context, id string) (*PermissionView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.Modules.FindByID(ctx, p.Module.Hex())
	if err != nil {
		return nil, err
	}
	v := newView(*p, m)
	return &v, nil
}

func (s *PermissionServiceImpl) ListPermissions(ctx context.Context) ([]PermissionView, error) {
	perms, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	modules, err := s.Modules.List(ctx, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*common_models.Module, len(modules))
	for i := range modules {
		byID[modules[i].ID] = &modules[i]
	}

	views := make([]PermissionView, 0, len(perms))
	for _, p := range perms {
		views = append(views, newView(p, byID[p.Module]))
	}
	return views, nil
}

// ListByModule returns the module's active permissions.
func (s *PermissionServiceImpl) ListByModule(ctx context.Context, moduleID string) ([]PermissionView, error) {
	m, err := s.requireModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	perms, err := s.Repo.ListByModule(ctx, moduleID, true)
	if err != nil {
		return nil, err
	}
	views := make([]PermissionView, 0, len(perms))
	for _, p := range perms {
		views = append(views, newView(p, m))
	}
	return views, nil
}

func (s *PermissionServiceImpl) UpdatePermission(ctx context.Context, id string, req UpdatePermissionRequest) (*PermissionView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]common_models.Change{}

	var m *common_models.Module
	if req.Module != nil && strings.TrimSpace(*req.Module) != "" {
		m, err = s.requireModule(ctx, strings.TrimSpace(*req.Module))
		if err != nil {
			return nil, err
		}
		if m.ID != p.Module {
			changes["module"] = common_models.Change{Old: p.Module.Hex(), New: m.ID.Hex()}
			p.Module = m.ID
		}
	}

	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name != "" && name != p.Name {
			existing, err := s.Repo.FindByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.ErrDuplicateKey("name", nil)
			}
			changes["name"] = common_models.Change{Old: p.Name, New: name}
			p.Name = name
		}
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil && *req.IsActive != p.IsActive {
		changes["isActive"] = common_models.Change{Old: p.IsActive, New: *req.IsActive}
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, auditModule, id, changes)

	if m == nil {
		if m, err = s.Modules.FindByID(ctx, p.Module.Hex()); err != nil {
			return nil, err
		}
	}
	v := newView(*p, m)
	return &v, nil
}

// DeletePermission is never blocked by roles that still list the permission; resolution
// skips the stale id afterwards.
func (s *PermissionServiceImpl) DeletePermission(ctx context.Context, id string) error {
	if err := s.Guard.CheckDelete(ctx, access.EntityPermission, id); err != nil {
		return err
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFound("Permission")
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionDelete, auditModule, id, map[string]common_models.Change{
		"name": {Old: p.Name},
	})
	return nil
}
