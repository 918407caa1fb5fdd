package seed

import (
	"context"
	"testing"

	"admin-panel/internal/config"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/access/accesstest"
	"admin-panel/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSeeder(store *accesstest.Store) *Seeder {
	return &Seeder{
		Modules:     store.Modules,
		Permissions: store.Permissions,
		Roles:       store.Roles,
		Users:       store.Users,
		Config:      &config.Config{SeedEmail: "admin@example.com", SeedPassword: "Admin@123", SeedName: "Admin", SeedRole: "admin"},
		Logger:      zap.NewNop(),
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := accesstest.NewStore()
	ctx := context.Background()

	first, err := newSeeder(store).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, first.Modules)
	assert.Equal(t, 21, first.Permissions)
	assert.Equal(t, 4, first.Roles)
	assert.True(t, first.User)

	second, err := newSeeder(store).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, second)

	perms, err := store.Permissions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 21)
}

func TestSeededAdminResolvesEveryPermission(t *testing.T) {
	store := accesstest.NewStore()
	ctx := context.Background()
	_, err := newSeeder(store).Run(ctx)
	require.NoError(t, err)

	admin, err := store.Users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, utils.CheckPassword(admin.PasswordHash, "Admin@123"))

	grant, err := access.NewGraphResolver(store.Users, store.Roles, store.Permissions).Resolve(ctx, admin.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "admin", grant.Role.Name)
	assert.Len(t, grant.Permissions, 21)
	assert.True(t, grant.Has("profile.updatePassword"))
	assert.True(t, grant.Has("audit.view"))
}

func TestGuestRoleIsNarrow(t *testing.T) {
	store := accesstest.NewStore()
	ctx := context.Background()
	_, err := newSeeder(store).Run(ctx)
	require.NoError(t, err)

	guest, err := store.Roles.FindByName(ctx, "guest")
	require.NoError(t, err)
	assert.Len(t, guest.Permissions, 2)
}

func TestUnknownSeedRoleFails(t *testing.T) {
	store := accesstest.NewStore()
	s := newSeeder(store)
	s.Config.SeedRole = "owner"

	_, err := s.Run(context.Background())
	assert.Error(t, err)
}
