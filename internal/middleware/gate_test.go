package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-panel/internal/common/models"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/access/accesstest"
	"admin-panel/internal/observability"
	"admin-panel/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	store   *accesstest.Store
	tokens  *utils.TokenManager
	metrics *observability.Metrics
	app     *fiber.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := accesstest.NewStore()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	gk := NewGatekeeper(tokens, access.NewGraphResolver(store.Users, store.Roles, store.Permissions), metrics, logger)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	principal := func(c *fiber.Ctx) error { return c.JSON(PrincipalFrom(c)) }
	app.Get("/users", gk.RequirePermission("users.view"), principal)
	app.Delete("/users", gk.RequirePermission("users.delete"), principal)
	app.Get("/categories", gk.RequireRoleName("user"), principal)
	app.Get("/me", gk.Authenticate(), func(c *fiber.Ctx) error {
		actor, _ := c.UserContext().Value(models.ActorIDKey).(string)
		return c.JSON(fiber.Map{"role": ClaimsFrom(c).Role, "actor": actor})
	})

	return &fixture{store: store, tokens: tokens, metrics: metrics, app: app}
}

func (f *fixture) token(t *testing.T, u models.User, roleName string) string {
	t.Helper()
	tok, err := f.tokens.GenerateToken(utils.Identity{SubjectID: u.ID.Hex(), Email: u.Email, Role: roleName, Name: u.Name})
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

// alice holds viewer, which grants users.view only.
func seedAlice(f *fixture) (models.User, models.Permission, models.Role) {
	m := f.store.MustModule("users", true)
	view := f.store.MustPermission("users.view", m.ID, true)
	f.store.MustPermission("users.delete", m.ID, true)
	viewer := f.store.MustRole("viewer", view.ID)
	alice := f.store.MustUser("alice@x.io", "Alice", viewer.ID, "")
	return alice, view, viewer
}

func TestPermissionGateAllowsAndDenies(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := seedAlice(f)
	tok := f.token(t, alice, "viewer")

	status, body := f.do(t, http.MethodGet, "/users", tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, alice.ID.Hex(), body["userId"])
	assert.Equal(t, "viewer", body["roleName"])
	assert.Equal(t, []any{"users.view"}, body["effectivePermissions"])

	status, body = f.do(t, http.MethodDelete, "/users", tok)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PermissionDenied", body["error"])
	assert.Equal(t, "users.delete", body["requiredPermission"])

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthzDecisionsTotal.WithLabelValues("permission", "allow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthzDecisionsTotal.WithLabelValues("permission", "PermissionDenied")))
}

func TestPermissionGateDeniesInactivePermissionStillReferenced(t *testing.T) {
	f := newFixture(t)
	alice, view, viewer := seedAlice(f)
	tok := f.token(t, alice, "viewer")

	view.IsActive = false
	require.NoError(t, f.store.Permissions.Update(context.Background(), &view))

	status, body := f.do(t, http.MethodGet, "/users", tok)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PermissionDenied", body["error"])

	role, err := f.store.Roles.FindByID(context.Background(), viewer.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, role.Permissions, view.ID)
}

func TestTokenSnapshotDiffersFromLiveGraph(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := seedAlice(f)
	tok := f.token(t, alice, "viewer")

	guest := f.store.MustRole("guest")
	require.NoError(t, f.store.Users.AssignRole(context.Background(), alice.ID.Hex(), guest.ID))

	claims, err := f.tokens.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "viewer", claims.Role)

	status, body := f.do(t, http.MethodGet, "/me", tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "viewer", body["role"])
	assert.Equal(t, alice.ID.Hex(), body["actor"])

	status, body = f.do(t, http.MethodGet, "/users", tok)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PermissionDenied", body["error"])
}

func TestRoleNameGateIgnoresPermissions(t *testing.T) {
	f := newFixture(t)
	m := f.store.MustModule("categories", true)
	p := f.store.MustPermission("categories.view", m.ID, true)
	admin := f.store.MustRole("Admin", p.ID)
	boss := f.store.MustUser("boss@x.io", "Boss", admin.ID, "")

	status, body := f.do(t, http.MethodGet, "/categories", f.token(t, boss, "Admin"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "RoleMismatch", body["error"])
	assert.Equal(t, "user", body["requiredRole"])

	plain := f.store.MustRole("User")
	u := f.store.MustUser("u@x.io", "U", plain.ID, "")
	status, body = f.do(t, http.MethodGet, "/categories", f.token(t, u, "User"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User", body["roleName"])
}

func TestAuthenticationFailures(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := seedAlice(f)
	expired, err := f.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		GenerateToken(utils.Identity{SubjectID: alice.ID.Hex(), Email: alice.Email, Role: "viewer"})
	require.NoError(t, err)
	ghost := models.User{ID: primitive.NewObjectID(), Email: "ghost@x.io"}

	tests := []struct {
		name   string
		header string
		status int
		kind   string
	}{
		{"no header", "", http.StatusUnauthorized, "MissingToken"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "MissingToken"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "InvalidOrExpiredToken"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "InvalidOrExpiredToken"},
		{"deleted user", "Bearer " + f.token(t, ghost, "viewer"), http.StatusUnauthorized, "NoSuchUser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := f.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.kind, body["error"])
		})
	}
}

func TestNoRoleAssignedIsForbidden(t *testing.T) {
	f := newFixture(t)
	orphan := f.store.MustUser("orphan@x.io", "Orphan", primitive.NilObjectID, "")

	status, body := f.do(t, http.MethodGet, "/users", f.token(t, orphan, ""))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NoRoleAssigned", body["error"])
}

func TestStoreFailureIsGeneric500(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := seedAlice(f)
	tok := f.token(t, alice, "viewer")
	f.store.Err = assert.AnError

	status, body := f.do(t, http.MethodGet, "/users", tok)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "StoreUnavailable", body["error"])
	assert.Equal(t, "Internal server error", body["message"])
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NotFound", body["error"])
}
