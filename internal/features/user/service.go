package user

import (
	"context"
	"strings"
	"time"

	"admin-panel/internal/common/apperr"
	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/features/audit"
	"admin-panel/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const auditModule = "user"

// RoleLookup is the slice of the role store the user service reads.
type RoleLookup interface {
	FindByID(ctx context.Context, id string) (*common_models.Role, error)
	List(ctx context.Context, activeOnly bool) ([]common_models.Role, error)
}

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error)
	GetUser(ctx context.Context, id string) (*UserView, error)
	ListUsers(ctx context.Context) ([]UserView, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserView, error)
	DeleteUser(ctx context.Context, id string) error
	AvailableRoles(ctx context.Context) ([]AvailableRole, error)
}

type UserServiceImpl struct {
	UserRepo     UserRepository
	Roles        RoleLookup
	AuditService audit.AuditService
}

func NewUserService(userRepo UserRepository, roles RoleLookup, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		UserRepo:     userRepo,
		Roles:        roles,
		AuditService: auditService,
	}
}

// activeRole resolves a client-supplied role id, which must name an existing active role.
func (s *UserServiceImpl) activeRole(ctx context.Context, id string) (*common_models.Role, error) {
	role, err := s.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil || !role.IsActive {
		return nil, apperr.ErrInvalidReference("Invalid or inactive role")
	}
	return role, nil
}

func (s *UserServiceImpl) view(ctx context.Context, u common_models.User) (UserView, error) {
	if !u.HasRole() {
		return NewView(u, nil), nil
	}
	role, err := s.Roles.FindByID(ctx, u.Role.Hex())
	if err != nil {
		return UserView{}, err
	}
	return NewView(u, role), nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	existing, err := s.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateKey("email", nil)
	}

	role, err := s.activeRole(ctx, req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := common_models.User{
		ID:           primitive.NewObjectID(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role.ID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, &u); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, auditModule, u.ID.Hex(), map[string]common_models.Change{
		"email": {New: u.Email},
		"role":  {New: role.Name},
	})
	v := NewView(u, role)
	return &v, nil
}

func (s *UserServiceImpl) find(ctx context.Context, id string) (*common_models.User, error) {
	u, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrNotFound("User")
	}
	return u, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*UserView, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, *u)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	// One role lookup per distinct role.
	roles := map[primitive.ObjectID]*common_models.Role{}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		var role *common_models.Role
		if u.HasRole() {
			cached, seen := roles[u.Role]
			if !seen {
				if cached, err = s.Roles.FindByID(ctx, u.Role.Hex()); err != nil {
					return nil, err
				}
				roles[u.Role] = cached
			}
			role = cached
		}
		out = append(out, NewView(u, role))
	}
	return out, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserView, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]common_models.Change{}

	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email != "" && email != u.Email {
			existing, err := s.UserRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != u.ID {
				return nil, apperr.ErrDuplicateKey("email", nil)
			}
			changes["email"] = common_models.Change{Old: u.Email, New: email}
			u.Email = email
		}
	}

	var role *common_models.Role
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		if role, err = s.activeRole(ctx, strings.TrimSpace(*req.Role)); err != nil {
			return nil, err
		}
		if role.ID != u.Role {
			changes["role"] = common_models.Change{Old: u.Role.Hex(), New: role.ID.Hex()}
			u.Role = role.ID
		}
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" && name != u.Name {
			changes["name"] = common_models.Change{Old: u.Name, New: name}
			u.Name = name
		}
	}
	setField(&u.FirstName, req.FirstName, "firstName", changes)
	setField(&u.LastName, req.LastName, "lastName", changes)
	setField(&u.Phone, req.Phone, "phone", changes)
	setField(&u.Address, req.Address, "address", changes)

	if len(changes) > 0 {
		fields := bson.M{}
		for key, change := range changes {
			fields[key] = change.New
		}
		if _, ok := changes["role"]; ok {
			fields["role"] = u.Role
		}
		if err := s.UserRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
		u.UpdatedAt = time.Now()
		s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, auditModule, id, changes)
	}

	if role != nil {
		v := NewView(*u, role)
		return &v, nil
	}
	v, err := s.view(ctx, *u)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func setField(dst *string, src *string, key string, changes map[string]common_models.Change) {
	if src == nil {
		return
	}
	next := strings.TrimSpace(*src)
	if next == *dst {
		return
	}
	changes[key] = common_models.Change{Old: *dst, New: next}
	*dst = next
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.UserRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFound("User")
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionDelete, auditModule, id, map[string]common_models.Change{
		"email": {Old: u.Email},
	})
	return nil
}

func (s *UserServiceImpl) AvailableRoles(ctx context.Context) ([]AvailableRole, error) {
	roles, err := s.Roles.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]AvailableRole, 0, len(roles))
	for _, r := range roles {
		out = append(out, AvailableRole{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return out, nil
}
