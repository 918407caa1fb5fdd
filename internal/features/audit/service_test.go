package audit

import (
	"context"
	"sync"
	"testing"

	common_models "admin-panel/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryRepo struct {
	mu   sync.Mutex
	logs []common_models.AuditLog
	err  error
}

func (m *memoryRepo) Create(ctx context.Context, log common_models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *memoryRepo) List(ctx context.Context, filter Filter, limit, offset int64) ([]common_models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []common_models.AuditLog{}
	for _, l := range m.logs {
		if filter.Module != "" && l.Module != filter.Module {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type usersByID map[string]common_models.User

func (u usersByID) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	out := []common_models.User{}
	for _, id := range ids {
		if user, ok := u[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func TestLogChangeAttributesActor(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewAuditService(repo, usersByID{}, zap.NewNop())

	ctx := context.WithValue(context.Background(), common_models.ActorIDKey, "actor-1")
	svc.LogChange(ctx, common_models.AuditActionDelete, "role", "r1", map[string]common_models.Change{"name": {Old: "viewer"}})
	svc.LogChange(context.Background(), common_models.AuditActionCreate, "module", "m1", nil)

	require.Len(t, repo.logs, 2)
	assert.Equal(t, "actor-1", repo.logs[0].ActorID)
	assert.Equal(t, common_models.AuditActionDelete, repo.logs[0].Action)
	assert.Equal(t, systemActor, repo.logs[1].ActorID)
}

func TestLogChangeSwallowsWriteFailure(t *testing.T) {
	repo := &memoryRepo{err: assert.AnError}
	svc := NewAuditService(repo, usersByID{}, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.LogChange(context.Background(), common_models.AuditActionUpdate, "user", "u1", nil)
	})
}

func TestListLogsResolvesActorNames(t *testing.T) {
	known := common_models.User{ID: primitive.NewObjectID(), Name: "Alice"}
	repo := &memoryRepo{logs: []common_models.AuditLog{
		{Module: "role", ActorID: known.ID.Hex()},
		{Module: "role", ActorID: systemActor},
		{Module: "role", ActorID: primitive.NewObjectID().Hex()},
		{Module: "user", ActorID: known.ID.Hex()},
	}}
	svc := NewAuditService(repo, usersByID{known.ID.Hex(): known}, zap.NewNop())

	logs, err := svc.ListLogs(context.Background(), Filter{Module: "role"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Alice", logs[0].ActorName)
	assert.Equal(t, "System", logs[1].ActorName)
	assert.Equal(t, "Unknown User", logs[2].ActorName)
}
