package audit

import (
	"context"
	"time"

	common_models "admin-panel/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const systemActor = "system"

type UserFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
}

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change)
	ListLogs(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	UserRepo UserFinder
	Logger   *zap.Logger
}

func NewAuditService(repo AuditRepository, userRepo UserFinder, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
		Logger:   logger,
	}
}

// LogChange records a mutation. A failed write is logged and never fails the caller's operation.
func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) {
	actorID := systemActor
	if id, ok := ctx.Value(common_models.ActorIDKey).(string); ok && id != "" {
		actorID = id
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	if err := s.Repo.Create(ctx, log); err != nil {
		s.Logger.Warn("audit write failed",
			zap.String("module", module),
			zap.String("recordId", recordID),
			zap.Error(err),
		)
	}
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit
	logs, err := s.Repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	// Collect Actor IDs
	actorIDs := make([]string, 0)
	uniqueIDs := make(map[string]bool)
	for _, log := range logs {
		if log.ActorID != systemActor && log.ActorID != "" && !uniqueIDs[log.ActorID] {
			uniqueIDs[log.ActorID] = true
			actorIDs = append(actorIDs, log.ActorID)
		}
	}

	userMap := make(map[string]string)
	if len(actorIDs) > 0 {
		users, err := s.UserRepo.FindByIDs(ctx, actorIDs)
		if err == nil {
			for _, user := range users {
				userMap[user.ID.Hex()] = user.Name
			}
		}
	}

	for i, log := range logs {
		switch {
		case log.ActorID == systemActor || log.ActorID == "":
			logs[i].ActorName = "System"
		case userMap[log.ActorID] != "":
			logs[i].ActorName = userMap[log.ActorID]
		default:
			logs[i].ActorName = "Unknown User"
		}
	}

	return logs, nil
}
