package access

import (
	"context"
	"fmt"

	"admin-panel/internal/common/apperr"
)

type Entity string

const (
	EntityModule     Entity = "module"
	EntityPermission Entity = "permission"
	EntityRole       Entity = "role"
)

// ReferenceCounter counts records that still point at the entity with the given id.
type ReferenceCounter func(ctx context.Context, id string) (int64, error)

type DeletePolicy struct {
	Dependent string
	Guarded   bool
}

// DeletePolicies is deliberately asymmetric. Permissions may be deleted while roles still
// list them; resolution drops the stale ids instead.
var DeletePolicies = map[Entity]DeletePolicy{
	EntityModule:     {Dependent: "permission", Guarded: true},
	EntityRole:       {Dependent: "user", Guarded: true},
	EntityPermission: {Dependent: "role", Guarded: false},
}

// Counters supplies the dependent counts for guarded entities.
type Counters struct {
	PermissionsByModule ReferenceCounter
	UsersByRole         ReferenceCounter
}

type Guard struct {
	counters map[Entity]ReferenceCounter
}

func NewGuard(c Counters) *Guard {
	return &Guard{
		counters: map[Entity]ReferenceCounter{
			EntityModule: c.PermissionsByModule,
			EntityRole:   c.UsersByRole,
		},
	}
}

// CheckDelete returns a ReferentialConflict carrying the blocking count when the policy
// for entity forbids deleting a referenced record.
func (g *Guard) CheckDelete(ctx context.Context, entity Entity, id string) error {
	policy, ok := DeletePolicies[entity]
	if !ok {
		return fmt.Errorf("no delete policy for %q", entity)
	}
	if !policy.Guarded {
		return nil
	}

	count := g.counters[entity]
	if count == nil {
		return fmt.Errorf("no reference counter registered for %q", entity)
	}
	n, err := count(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.ErrReferentialConflict(string(entity), policy.Dependent, n)
	}
	return nil
}
