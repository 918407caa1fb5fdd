package profile

import (
	"context"
	"strings"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
	"admin-panel/internal/features/audit"
	"admin-panel/internal/features/user"
	"admin-panel/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
)

const auditModule = "user"

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) error
	UpdatePassword(ctx context.Context, id string, hash string) error
}

type RoleLookup interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*user.UserView, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*user.UserView, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type ProfileServiceImpl struct {
	Users        UserStore
	Roles        RoleLookup
	AuditService audit.AuditService
}

func NewProfileService(users UserStore, roles RoleLookup, auditService audit.AuditService) ProfileService {
	return &ProfileServiceImpl{
		Users:        users,
		Roles:        roles,
		AuditService: auditService,
	}
}

func (s *ProfileServiceImpl) load(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrNotFound("User")
	}
	return u, nil
}

func (s *ProfileServiceImpl) view(ctx context.Context, u *models.User) (*user.UserView, error) {
	var role *models.Role
	if u.HasRole() {
		var err error
		if role, err = s.Roles.FindByID(ctx, u.Role.Hex()); err != nil {
			return nil, err
		}
	}
	v := user.NewView(*u, role)
	return &v, nil
}

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID string) (*user.UserView, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, u)
}

func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*user.UserView, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]models.Change{}
	fields := bson.M{}
	apply := func(key string, current string, src *string, required bool) {
		if src == nil {
			return
		}
		next := strings.TrimSpace(*src)
		if (required && next == "") || next == current {
			return
		}
		changes[key] = models.Change{Old: current, New: next}
		fields[key] = next
	}
	apply("name", u.Name, req.Name, true)
	apply("firstName", u.FirstName, req.FirstName, false)
	apply("lastName", u.LastName, req.LastName, false)
	apply("phone", u.Phone, req.Phone, false)
	apply("address", u.Address, req.Address, false)
	apply("image", u.Image, req.Image, false)

	if len(fields) == 0 {
		return s.view(ctx, u)
	}
	// Only profile fields are written; role and password stay as stored.
	if err := s.Users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	s.AuditService.LogChange(ctx, models.AuditActionUpdate, auditModule, userID, changes)

	if u, err = s.load(ctx, userID); err != nil {
		return nil, err
	}
	return s.view(ctx, u)
}

func (s *ProfileServiceImpl) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperr.ErrValidation("Current password and new password are required")
	}
	if err := user.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return apperr.ErrValidation("Current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// The hash itself is never written to the audit trail.
	s.AuditService.LogChange(ctx, models.AuditActionUpdate, auditModule, userID, map[string]models.Change{
		"password": {New: "changed"},
	})
	return nil
}
