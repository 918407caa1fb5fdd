package jobs

import (
	"context"
	"errors"
	"testing"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/config"
	"admin-panel/internal/features/access/accesstest"
	"admin-panel/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScanFindsDeletedPermissions(t *testing.T) {
	store := accesstest.NewStore()
	m := store.MustModule("users", true)
	view := store.MustPermission("users.view", m.ID, true)
	gone := store.MustPermission("users.delete", m.ID, true)
	role := store.MustRole("viewer", view.ID, gone.ID)
	store.MustRole("empty")

	_, err := store.Permissions.Delete(context.Background(), gone.ID.Hex())
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	scanner := NewIntegrityScanner(store.Roles, store.Permissions, metrics, &config.Config{}, zap.NewNop())

	dangling, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, dangling, 1)
	assert.Equal(t, DanglingRef{RoleID: role.ID.Hex(), RoleName: "viewer", PermissionID: gone.ID.Hex()}, dangling[0])

	scanner.run()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DanglingReferences.WithLabelValues("role_permission")))

	// The scan reports but never rewrites the role.
	stored, err := store.Roles.FindByID(context.Background(), role.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, stored.Permissions, 2)
}

func TestScanPropagatesStoreFailure(t *testing.T) {
	store := accesstest.NewStore()
	store.Err = errors.New("down")
	scanner := NewIntegrityScanner(store.Roles, store.Permissions, nil, &config.Config{}, zap.NewNop())

	_, err := scanner.Scan(context.Background())
	assert.Equal(t, apperr.StoreUnavailable, apperr.KindOf(err))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	store := accesstest.NewStore()
	scanner := NewIntegrityScanner(store.Roles, store.Permissions, nil, &config.Config{IntegrityScan: "not a schedule"}, zap.NewNop())
	assert.Error(t, scanner.Start())

	scanner = NewIntegrityScanner(store.Roles, store.Permissions, nil, &config.Config{}, zap.NewNop())
	require.NoError(t, scanner.Start())
	require.NoError(t, scanner.Stop(context.Background()))
}
