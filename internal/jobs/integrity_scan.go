package jobs

import (
	"context"
	"fmt"
	"time"

	"admin-panel/internal/common/models"
	"admin-panel/internal/config"
	"admin-panel/internal/observability"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const scanTimeout = 2 * time.Minute

type RoleLister interface {
	List(ctx context.Context, activeOnly bool) ([]models.Role, error)
}

type PermissionFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error)
}

// DanglingRef is a role entry that points at a permission which no longer exists.
type DanglingRef struct {
	RoleID       string
	RoleName     string
	PermissionID string
}

// IntegrityScanner reports role→permission references left behind by permission deletes.
// It never repairs them; resolution already skips unknown ids.
type IntegrityScanner struct {
	roles       RoleLister
	permissions PermissionFinder
	metrics     *observability.Metrics
	logger      *zap.Logger
	schedule    string

	scheduler *cron.Cron
}

func NewIntegrityScanner(roles RoleLister, permissions PermissionFinder, metrics *observability.Metrics, cfg *config.Config, logger *zap.Logger) *IntegrityScanner {
	return &IntegrityScanner{
		roles:       roles,
		permissions: permissions,
		metrics:     metrics,
		logger:      logger,
		schedule:    cfg.IntegrityScan,
	}
}

// Scan walks every role once and returns the references that do not resolve.
func (s *IntegrityScanner) Scan(ctx context.Context) ([]DanglingRef, error) {
	roles, err := s.roles.List(ctx, false)
	if err != nil {
		return nil, err
	}

	var referenced []primitive.ObjectID
	for _, r := range roles {
		referenced = append(referenced, r.Permissions...)
	}
	found, err := s.permissions.FindByIDs(ctx, referenced)
	if err != nil {
		return nil, err
	}
	exists := make(map[primitive.ObjectID]struct{}, len(found))
	for _, p := range found {
		exists[p.ID] = struct{}{}
	}

	var dangling []DanglingRef
	for _, r := range roles {
		for _, id := range r.Permissions {
			if _, ok := exists[id]; !ok {
				dangling = append(dangling, DanglingRef{RoleID: r.ID.Hex(), RoleName: r.Name, PermissionID: id.Hex()})
			}
		}
	}
	return dangling, nil
}

func (s *IntegrityScanner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	dangling, err := s.Scan(ctx)
	if err != nil {
		s.logger.Error("integrity scan failed", zap.Error(err))
		return
	}
	s.metrics.SetDangling("role_permission", len(dangling))
	for _, d := range dangling {
		s.logger.Warn("role references missing permission",
			zap.String("roleId", d.RoleID),
			zap.String("role", d.RoleName),
			zap.String("permissionId", d.PermissionID),
		)
	}
	s.logger.Info("integrity scan finished", zap.Int("dangling", len(dangling)))
}

// Start schedules the scan. An empty schedule disables it.
func (s *IntegrityScanner) Start() error {
	if s.schedule == "" {
		s.logger.Info("integrity scan disabled")
		return nil
	}
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("invalid integrity scan schedule %q: %w", s.schedule, err)
	}
	s.scheduler.Start()
	s.logger.Info("integrity scan scheduled", zap.String("schedule", s.schedule))
	return nil
}

func (s *IntegrityScanner) Stop(ctx context.Context) error {
	if s.scheduler == nil {
		return nil
	}
	select {
	case <-s.scheduler.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterIntegrityScan ties the scheduler to the fx lifecycle.
func RegisterIntegrityScan(lc fx.Lifecycle, scanner *IntegrityScanner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scanner.Start()
		},
		OnStop: scanner.Stop,
	})
}
