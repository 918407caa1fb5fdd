package module

import (
	"context"
	"testing"

	"admin-panel/internal/common/apperr"
	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/access/accesstest"
	"admin-panel/internal/features/audit/audittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(store *accesstest.Store) (ModuleService, *audittest.Recorder) {
	byModule, byRole := store.Counters()
	guard := access.NewGuard(access.Counters{PermissionsByModule: byModule, UsersByRole: byRole})
	rec := &audittest.Recorder{}
	return NewModuleService(store.Modules, guard, rec), rec
}

func TestCreateModuleNormalizesName(t *testing.T) {
	store := accesstest.NewStore()
	svc, rec := newService(store)

	m, err := svc.CreateModule(context.Background(), CreateModuleRequest{Name: "  Reports ", DisplayName: " Reports "})
	require.NoError(t, err)
	assert.Equal(t, "reports", m.Name)
	assert.Equal(t, "Reports", m.DisplayName)
	assert.True(t, m.IsActive)
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionCreate}, rec.Actions())

	_, err = svc.CreateModule(context.Background(), CreateModuleRequest{Name: "REPORTS", DisplayName: "Again"})
	assert.Equal(t, apperr.DuplicateKey, apperr.KindOf(err))
}

func TestCreateModuleRequiresNames(t *testing.T) {
	svc, _ := newService(accesstest.NewStore())

	_, err := svc.CreateModule(context.Background(), CreateModuleRequest{Name: "x"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUpdateModuleIsPartial(t *testing.T) {
	store := accesstest.NewStore()
	svc, _ := newService(store)
	m := store.MustModule("users", true)
	store.MustModule("roles", true)

	inactive := false
	updated, err := svc.UpdateModule(context.Background(), m.ID.Hex(), UpdateModuleRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "users", updated.Name)

	taken := "Roles"
	_, err = svc.UpdateModule(context.Background(), m.ID.Hex(), UpdateModuleRequest{Name: &taken})
	assert.Equal(t, apperr.DuplicateKey, apperr.KindOf(err))

	_, err = svc.UpdateModule(context.Background(), "missing", UpdateModuleRequest{})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteModuleGuardedByPermissions(t *testing.T) {
	store := accesstest.NewStore()
	svc, rec := newService(store)
	m := store.MustModule("users", true)
	p1 := store.MustPermission("users.view", m.ID, true)
	p2 := store.MustPermission("users.edit", m.ID, true)

	err := svc.DeleteModule(context.Background(), m.ID.Hex())
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ReferentialConflict, e.Kind)
	assert.Equal(t, int64(2), e.Count)
	assert.Empty(t, rec.Entries)

	for _, p := range []common_models.Permission{p1, p2} {
		_, err := store.Permissions.Delete(context.Background(), p.ID.Hex())
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteModule(context.Background(), m.ID.Hex()))
	got, err := store.Modules.FindByID(context.Background(), m.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionDelete}, rec.Actions())
}

func TestDeleteUnknownModule(t *testing.T) {
	svc, _ := newService(accesstest.NewStore())
	err := svc.DeleteModule(context.Background(), "0123456789abcdef01234567")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
