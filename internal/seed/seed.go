// Package seed creates the module, permission and role catalog plus a bootstrap account.
// Every step looks records up by name first, so running it again changes nothing but role grants.
package seed

import (
	"context"
	"fmt"
	"time"

	"admin-panel/internal/common/models"
	"admin-panel/internal/config"
	"admin-panel/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ModuleStore interface {
	Create(ctx context.Context, m *models.Module) error
	FindByName(ctx context.Context, name string) (*models.Module, error)
}

type PermissionStore interface {
	Create(ctx context.Context, p *models.Permission) error
	FindByName(ctx context.Context, name string) (*models.Permission, error)
}

type RoleStore interface {
	Create(ctx context.Context, r *models.Role) error
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Update(ctx context.Context, r *models.Role) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Seeder struct {
	Modules     ModuleStore
	Permissions PermissionStore
	Roles       RoleStore
	Users       UserStore
	Config      *config.Config
	Logger      *zap.Logger
}

// Result summarises what a run created.
type Result struct {
	Modules     int
	Permissions int
	Roles       int
	User        bool
}

func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	permIDs, err := s.seedCatalog(ctx, res)
	if err != nil {
		return nil, err
	}

	roleIDs := map[string]primitive.ObjectID{}
	for _, rs := range roles {
		id, err := s.seedRole(ctx, rs, permIDs, res)
		if err != nil {
			return nil, err
		}
		roleIDs[rs.Name] = id
	}

	if err := s.seedUser(ctx, roleIDs, res); err != nil {
		return nil, err
	}
	return res, nil
}

// seedCatalog returns permission ids by name, in catalog order.
func (s *Seeder) seedCatalog(ctx context.Context, res *Result) (*orderedIDs, error) {
	ids := &orderedIDs{byName: map[string]primitive.ObjectID{}}
	now := time.Now()

	for _, ms := range modules {
		mod, err := s.Modules.FindByName(ctx, ms.Name)
		if err != nil {
			return nil, err
		}
		if mod == nil {
			mod = &models.Module{
				ID:          primitive.NewObjectID(),
				Name:        ms.Name,
				DisplayName: ms.DisplayName,
				Description: ms.Description,
				Icon:        ms.Icon,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.Modules.Create(ctx, mod); err != nil {
				return nil, fmt.Errorf("create module %s: %w", ms.Name, err)
			}
			res.Modules++
			s.Logger.Info("Created module", zap.String("module", ms.Name))
		}

		for _, ps := range ms.Permissions {
			perm, err := s.Permissions.FindByName(ctx, ps.Name)
			if err != nil {
				return nil, err
			}
			if perm == nil {
				perm = &models.Permission{
					ID:          primitive.NewObjectID(),
					Name:        ps.Name,
					Module:      mod.ID,
					Description: ps.Description,
					IsActive:    true,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := s.Permissions.Create(ctx, perm); err != nil {
					return nil, fmt.Errorf("create permission %s: %w", ps.Name, err)
				}
				res.Permissions++
				s.Logger.Info("Created permission", zap.String("permission", ps.Name))
			}
			ids.add(ps.Name, perm.ID)
		}
	}
	return ids, nil
}

func (s *Seeder) seedRole(ctx context.Context, rs roleSeed, perms *orderedIDs, res *Result) (primitive.ObjectID, error) {
	grant := perms.all()
	if rs.Permissions != nil {
		grant = perms.pick(rs.Permissions)
	}

	role, err := s.Roles.FindByName(ctx, rs.Name)
	if err != nil {
		return primitive.NilObjectID, err
	}
	now := time.Now()
	if role == nil {
		role = &models.Role{
			ID:          primitive.NewObjectID(),
			Name:        rs.Name,
			Description: rs.Description,
			IsActive:    true,
			Permissions: grant,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Roles.Create(ctx, role); err != nil {
			return primitive.NilObjectID, fmt.Errorf("create role %s: %w", rs.Name, err)
		}
		res.Roles++
		s.Logger.Info("Created role", zap.String("role", rs.Name), zap.Int("permissions", len(grant)))
		return role.ID, nil
	}

	role.Permissions = grant
	role.UpdatedAt = now
	if err := s.Roles.Update(ctx, role); err != nil {
		return primitive.NilObjectID, fmt.Errorf("update role %s: %w", rs.Name, err)
	}
	s.Logger.Info("Updated role grants", zap.String("role", rs.Name), zap.Int("permissions", len(grant)))
	return role.ID, nil
}

func (s *Seeder) seedUser(ctx context.Context, roleIDs map[string]primitive.ObjectID, res *Result) error {
	cfg := s.Config
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		s.Logger.Info("No bootstrap account configured, skipping")
		return nil
	}

	existing, err := s.Users.FindByEmail(ctx, cfg.SeedEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		s.Logger.Info("Bootstrap account exists, skipping", zap.String("email", cfg.SeedEmail))
		return nil
	}

	roleID, ok := roleIDs[cfg.SeedRole]
	if !ok {
		return fmt.Errorf("seed role %q is not part of the catalog", cfg.SeedRole)
	}
	hash, err := utils.HashPassword(cfg.SeedPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	u := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        cfg.SeedEmail,
		Name:         cfg.SeedName,
		PasswordHash: hash,
		Role:         roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return fmt.Errorf("create bootstrap account: %w", err)
	}
	res.User = true
	s.Logger.Info("Created bootstrap account", zap.String("email", cfg.SeedEmail), zap.String("role", cfg.SeedRole))
	return nil
}

type orderedIDs struct {
	names  []string
	byName map[string]primitive.ObjectID
}

func (o *orderedIDs) add(name string, id primitive.ObjectID) {
	if _, ok := o.byName[name]; !ok {
		o.names = append(o.names, name)
	}
	o.byName[name] = id
}

func (o *orderedIDs) all() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(o.names))
	for _, n := range o.names {
		out = append(out, o.byName[n])
	}
	return out
}

func (o *orderedIDs) pick(names []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(names))
	for _, n := range names {
		if id, ok := o.byName[n]; ok {
			out = append(out, id)
		}
	}
	return out
}
