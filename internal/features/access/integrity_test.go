package access_test

import (
	"context"
	"testing"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/access/accesstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(s *accesstest.Store) *access.Guard {
	byModule, byRole := s.Counters()
	return access.NewGuard(access.Counters{PermissionsByModule: byModule, UsersByRole: byRole})
}

func TestModuleDeleteBlockedWhilePermissionsReferenceIt(t *testing.T) {
	s := accesstest.NewStore()
	m := s.MustModule("users", true)
	s.MustPermission("users.view", m.ID, true)
	s.MustPermission("users.edit", m.ID, false)

	err := newGuard(s).CheckDelete(context.Background(), access.EntityModule, m.ID.Hex())
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ReferentialConflict, e.Kind)
	assert.Equal(t, int64(2), e.Count)
	assert.Equal(t, 409, e.Kind.Status())
}

func TestModuleDeleteAllowedWhenUnreferenced(t *testing.T) {
	s := accesstest.NewStore()
	m := s.MustModule("reports", true)

	assert.NoError(t, newGuard(s).CheckDelete(context.Background(), access.EntityModule, m.ID.Hex()))
}

func TestRoleDeleteBlockedWhileUsersHoldIt(t *testing.T) {
	s := accesstest.NewStore()
	role := s.MustRole("viewer")
	s.MustUser("a@x.io", "A", role.ID, "")

	err := newGuard(s).CheckDelete(context.Background(), access.EntityRole, role.ID.Hex())
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ReferentialConflict, e.Kind)
	assert.Equal(t, int64(1), e.Count)
	assert.Contains(t, e.Detail, "1 user(s)")

	empty := s.MustRole("empty")
	assert.NoError(t, newGuard(s).CheckDelete(context.Background(), access.EntityRole, empty.ID.Hex()))
}

func TestPermissionDeleteIsNotGuarded(t *testing.T) {
	s := accesstest.NewStore()
	m := s.MustModule("users", true)
	view := s.MustPermission("users.view", m.ID, true)
	s.MustRole("viewer", view.ID)

	assert.NoError(t, newGuard(s).CheckDelete(context.Background(), access.EntityPermission, view.ID.Hex()))
	assert.False(t, access.DeletePolicies[access.EntityPermission].Guarded)
}

func TestCheckDeleteUnknownEntity(t *testing.T) {
	s := accesstest.NewStore()
	assert.Error(t, newGuard(s).CheckDelete(context.Background(), access.Entity("category"), "x"))
}
