package profile

import (
	"context"
	"sync"
	"testing"

	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/features/access/accesstest"
	"admin-panel/internal/features/audit/audittest"
	"admin-panel/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingUsers runs between once right after the first read, standing in for an admin
// edit that lands between the service's load and its write.
type racingUsers struct {
	*accesstest.Users
	once    sync.Once
	between func()
}

func (u *racingUsers) FindByID(ctx context.Context, id string) (*common_models.User, error) {
	row, err := u.Users.FindByID(ctx, id)
	u.once.Do(u.between)
	return row, err
}

func TestUpdateProfileKeepsConcurrentRoleChange(t *testing.T) {
	store := accesstest.NewStore()
	admin := store.MustRole("admin")
	guest := store.MustRole("guest")
	me := store.MustUser("me@example.com", "Me", admin.ID, "hash")
	ctx := context.Background()

	users := &racingUsers{Users: store.Users, between: func() {
		require.NoError(t, store.Users.AssignRole(ctx, me.ID.Hex(), guest.ID))
	}}
	svc := NewProfileService(users, store.Roles, &audittest.Recorder{})

	name := "Renamed"
	view, err := svc.UpdateProfile(ctx, me.ID.Hex(), UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Name)
	require.NotNil(t, view.Role)
	assert.Equal(t, "guest", view.Role.Name)

	stored, err := store.Users.FindByID(ctx, me.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, guest.ID, stored.Role, "demotion survives a profile edit")
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestChangePasswordKeepsConcurrentRoleChange(t *testing.T) {
	store := accesstest.NewStore()
	admin := store.MustRole("admin")
	guest := store.MustRole("guest")
	hash, err := utils.HashPassword("old-secret")
	require.NoError(t, err)
	me := store.MustUser("me@example.com", "Me", admin.ID, hash)
	ctx := context.Background()

	users := &racingUsers{Users: store.Users, between: func() {
		require.NoError(t, store.Users.AssignRole(ctx, me.ID.Hex(), guest.ID))
	}}
	svc := NewProfileService(users, store.Roles, &audittest.Recorder{})

	require.NoError(t, svc.ChangePassword(ctx, me.ID.Hex(), ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret"}))

	stored, err := store.Users.FindByID(ctx, me.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, guest.ID, stored.Role)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "new-secret"))
}

func TestUpdateProfileWithoutChangesWritesNothing(t *testing.T) {
	store := accesstest.NewStore()
	me := store.MustUser("me@example.com", "Me", store.MustRole("user").ID, "hash")
	rec := &audittest.Recorder{}
	svc := NewProfileService(store.Users, store.Roles, rec)

	same := " Me "
	view, err := svc.UpdateProfile(context.Background(), me.ID.Hex(), UpdateProfileRequest{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "Me", view.Name)
	assert.Empty(t, rec.Entries)
}
