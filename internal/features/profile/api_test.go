package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	common_models "admin-panel/internal/common/models"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/access/accesstest"
	"admin-panel/internal/features/audit/audittest"
	"admin-panel/internal/middleware"
	"admin-panel/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store *accesstest.Store
	audit *audittest.Recorder
	app   *fiber.App
	me    common_models.User
	token string
}

func newFixture(t *testing.T, perms ...string) *fixture {
	t.Helper()
	store := accesstest.NewStore()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	rec := &audittest.Recorder{}
	logger := zap.NewNop()

	module := store.MustModule("profile", true)
	var ids []common_models.Permission
	for _, name := range perms {
		ids = append(ids, store.MustPermission(name, module.ID, true))
	}
	role := store.MustRole("member")
	for _, p := range ids {
		role.Permissions = append(role.Permissions, p.ID)
	}
	require.NoError(t, store.Roles.Update(context.Background(), &role))

	hash, err := utils.HashPassword("old-secret")
	require.NoError(t, err)
	me := store.MustUser("me@example.com", "Me", role.ID, hash)
	token, err := tokens.GenerateToken(utils.Identity{SubjectID: me.ID.Hex(), Email: me.Email, Role: role.Name, Name: me.Name})
	require.NoError(t, err)

	gate := middleware.NewGatekeeper(tokens, access.NewGraphResolver(store.Users, store.Roles, store.Permissions), nil, logger)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	NewProfileApi(NewProfileController(NewProfileService(store.Users, store.Roles, rec)), gate).Setup(app)

	return &fixture{store: store, audit: rec, app: app, me: me, token: token}
}

func (f *fixture) send(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func TestGetProfileIncludesEffectivePermissions(t *testing.T) {
	f := newFixture(t, "profile.view", "profile.update")

	status, raw := f.send(t, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Equal(t, "me@example.com", resp.User.Email)
	require.NotNil(t, resp.User.Role)
	assert.Equal(t, "member", resp.User.Role.Name)
	assert.Equal(t, []string{"profile.update", "profile.view"}, resp.Permissions)
	assert.NotContains(t, string(raw), "passwordHash")
}

func TestUpdateProfileNeedsItsOwnPermission(t *testing.T) {
	f := newFixture(t, "profile.view")

	status, _ := f.send(t, http.MethodPut, "/api/profile", map[string]string{"phone": "555"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateProfileIgnoresEmailAndRole(t *testing.T) {
	f := newFixture(t, "profile.update")

	status, raw := f.send(t, http.MethodPut, "/api/profile", map[string]string{
		"phone": " 555 ",
		"email": "other@example.com",
		"role":  "000000000000000000000000",
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	stored, err := f.store.Users.FindByID(context.Background(), f.me.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "555", stored.Phone)
	assert.Equal(t, "me@example.com", stored.Email)
	assert.Equal(t, f.me.Role, stored.Role)
	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, f.me.ID.Hex(), f.audit.Entries[0].ActorID)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, "profile.updatePassword")

	status, raw := f.send(t, http.MethodPut, "/api/profile/password", ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-secret"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "Current password is incorrect")

	status, _ = f.send(t, http.MethodPut, "/api/profile/password", ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "123"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.send(t, http.MethodPut, "/api/profile/password", ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret"})
	require.Equal(t, http.StatusOK, status)

	stored, err := f.store.Users.FindByID(context.Background(), f.me.ID.Hex())
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "new-secret"))
	require.Len(t, f.audit.Entries, 1)
	assert.NotContains(t, f.audit.Entries[0].Changes["password"].New, "$2a$")
}
