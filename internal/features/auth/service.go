package auth

import (
	"context"
	"strings"
	"time"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
	"admin-panel/internal/config"
	"admin-panel/internal/features/audit"
	"admin-panel/internal/features/user"
	"admin-panel/internal/observability"
	"admin-panel/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type RoleLookup interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

type AuthServiceImpl struct {
	Users        UserStore
	Roles        RoleLookup
	Tokens       *utils.TokenManager
	AuditService audit.AuditService
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	DefaultRole  string
}

func NewAuthService(
	users UserStore,
	roles RoleLookup,
	tokens *utils.TokenManager,
	auditService audit.AuditService,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &AuthServiceImpl{
		Users:        users,
		Roles:        roles,
		Tokens:       tokens,
		AuditService: auditService,
		Metrics:      metrics,
		Logger:       logger,
		DefaultRole:  cfg.DefaultRole,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	account, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		s.Metrics.RecordLogin("error")
		return nil, err
	}
	if !verifyCredentials(account, req.Password) {
		s.Metrics.RecordLogin("failure")
		return nil, apperr.ErrInvalidCredentials()
	}

	roleName, err := s.roleName(ctx, account)
	if err != nil {
		s.Metrics.RecordLogin("error")
		return nil, err
	}
	resp, err := s.issue(account, roleName)
	if err != nil {
		return nil, err
	}
	s.Metrics.RecordLogin("success")

	actorCtx := context.WithValue(ctx, models.ActorIDKey, account.ID.Hex())
	s.AuditService.LogChange(actorCtx, models.AuditActionLogin, "auth", account.ID.Hex(), nil)
	s.Logger.Info("user logged in", zap.String("userId", account.ID.Hex()))
	return resp, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := user.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, apperr.ErrValidation("Email, password, and name are required")
	}
	if err := user.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateKey("email", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	roleName := ""
	role, err := s.Roles.FindByName(ctx, s.DefaultRole)
	if err != nil {
		return nil, err
	}
	if role != nil && role.IsActive {
		account.Role = role.ID
		roleName = role.Name
	} else {
		s.Logger.Warn("default role unavailable, registering without a role", zap.String("role", s.DefaultRole))
	}

	if err := s.Users.Create(ctx, account); err != nil {
		return nil, err
	}

	actorCtx := context.WithValue(ctx, models.ActorIDKey, account.ID.Hex())
	s.AuditService.LogChange(actorCtx, models.AuditActionCreate, "user", account.ID.Hex(), map[string]models.Change{
		"email": {New: account.Email},
		"role":  {New: roleName},
	})
	return s.issue(account, roleName)
}

// roleName is the name recorded in the token snapshot. A dangling role yields an empty name.
func (s *AuthServiceImpl) roleName(ctx context.Context, account *models.User) (string, error) {
	if !account.HasRole() {
		return "", nil
	}
	role, err := s.Roles.FindByID(ctx, account.Role.Hex())
	if err != nil {
		return "", err
	}
	if role == nil {
		return "", nil
	}
	return role.Name, nil
}

func (s *AuthServiceImpl) issue(account *models.User, roleName string) (*AuthResponse, error) {
	token, err := s.Tokens.GenerateToken(utils.Identity{
		SubjectID: account.ID.Hex(),
		Email:     account.Email,
		Role:      roleName,
		Name:      account.Name,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token: token,
		User: AuthUser{
			ID:    account.ID.Hex(),
			Email: account.Email,
			Name:  account.Name,
			Role:  roleName,
		},
	}, nil
}
