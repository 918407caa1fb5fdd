package module

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

const auditModule = "module"

type ModuleService interface {
	CreateModule(ctx context.Context, req CreateModuleRequest) (*common_models.Module, error)
	GetModule(ctx context.Context, id string) (*common_models.Module, error)
	ListModules(ctx context.Context) ([]common_models.Module, error)
	ListActiveModules(ctx context.Context) ([]common_models.Module, error)
	UpdateModule(ctx context.Context, id string, req UpdateModuleRequest) (*common_models.Module, error)
	DeleteModule(ctx context.Context, id string) error
}

type ModuleServiceImpl struct {
	Repo         ModuleRepository
	Guard        *access.Guard
	AuditService audit.AuditService
}

func NewModuleService(repo ModuleRepository, guard *access.Guard, auditService audit.AuditService) ModuleService {
	return &ModuleServiceImpl{
		Repo:         repo,
		Guard:        guard,
		AuditService: auditService,
	}
}

func (s *ModuleServiceImpl) CreateModule(ctx context.Context, req CreateModuleRequest) (*common_models.Module, error) {
	if err := req.Normalize(); err != nil {
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
	m := &common_models.Module{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, auditModule, m.ID.Hex(), map[string]common_models.Change{
		"name": {New: m.Name},
	})
	return m, nil
}

func (s *ModuleServiceImpl) GetModule(ctx context.Context, id string) (*common_models.Module, error) {
	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.ErrNotFound("Module")
	}
	return m, nil
}

func (s *ModuleServiceImpl) ListModules(ctx context.Context) ([]common_models.Module, error) {
	return s.Repo.List(ctx, false)
}

func (s *ModuleServiceImpl) ListActiveModules(ctx context.Context) ([]common_models.Module, error) {
	return s.Repo.List(ctx, true)
}

func (s *ModuleServiceImpl) UpdateModule(ctx context.Context, id string, req UpdateModuleRequest) (*common_models.Module, error) {
	m, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]common_models.Change{}

	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name != "" && name != m.Name {
			existing, err := s.Repo.FindByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.ErrDuplicateKey("name", nil)
			}
			changes["name"] = common_models.Change{Old: m.Name, New: name}
			m.Name = name
		}
	}
	if req.DisplayName != nil {
		if dn := strings.TrimSpace(*req.DisplayName); dn != "" {
			m.DisplayName = dn
		}
	}
	if req.Description != nil {
		m.Description = strings.TrimSpace(*req.Description)
	}
	if req.Icon != nil {
		m.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.IsActive != nil && *req.IsActive != m.IsActive {
		changes["isActive"] = common_models.Change{Old: m.IsActive, New: *req.IsActive}
		m.IsActive = *req.IsActive
	}
	m.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, auditModule, id, changes)
	return m, nil
}

// DeleteModule is refused while any permission, active or not, still references the module.
func (s *ModuleServiceImpl) DeleteModule(ctx context.Context, id string) error {
	if err := s.Guard.CheckDelete(ctx, access.EntityModule, id); err != nil {
		return err
	}

	m, err := s.GetModule(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFound("Module")
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionDelete, auditModule, id, map[string]common_models.Change{
		"name": {Old: m.Name},
	})
	return nil
}
