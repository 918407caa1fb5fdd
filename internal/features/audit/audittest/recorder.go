// Package audittest records audit calls in memory.
package audittest

import (
	"context"
	"sync"

	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/features/audit"
)

type Entry struct {
	Action   common_models.AuditAction
	Module   string
	RecordID string
	ActorID  string
	Changes  map[string]common_models.Change
}

// Recorder implements audit.AuditService.
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

func (r *Recorder) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) {
	actor, _ := ctx.Value(common_models.ActorIDKey).(string)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Action: action, Module: module, RecordID: recordID, ActorID: actor, Changes: changes})
}

func (r *Recorder) ListLogs(ctx context.Context, filter audit.Filter, page, limit int64) ([]common_models.AuditLog, error) {
	return []common_models.AuditLog{}, nil
}

// Actions returns the recorded actions in order.
func (r *Recorder) Actions() []common_models.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]common_models.AuditAction, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Action
	}
	return out
}
