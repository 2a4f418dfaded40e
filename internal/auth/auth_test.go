package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/session"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every new connection would see its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Admin{}))

	return db
}

func seedLocal(t *testing.T, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()

	hash, err := models.HashPassword(password)
	require.NoError(t, err)

	a, err := admin.UpsertLocal(context.Background(), db, username, username+"@example.com", hash)
	require.NoError(t, err)

	return a
}

func TestTokenVerifier(t *testing.T) {
	v := NewTokenVerifier(testSecret, "authenticated")

	valid, err := v.Sign("user-1", time.Hour)
	require.NoError(t, err)

	expired, err := v.Sign("user-1", -time.Hour)
	require.NoError(t, err)

	other, err := NewTokenVerifier("another-secret-another-secret-another", "authenticated").Sign("user-1", time.Hour)
	require.NoError(t, err)

	wrongAudience, err := NewTokenVerifier(testSecret, "").Sign("user-1", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, wantErr: ErrInvalidToken},
		{name: "wrong secret", token: other, wantErr: ErrInvalidToken},
		{name: "missing audience", token: wrongAudience, wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.token", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.Subject)
		})
	}
}

func TestTokenVerifierDisabled(t *testing.T) {
	var v *TokenVerifier

	_, err := v.Verify("x")
	require.ErrorIs(t, err, ErrTokenAuthDisabled)

	_, err = NewTokenVerifier("", "").Sign("user", time.Minute)
	require.ErrorIs(t, err, ErrTokenAuthDisabled)
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleHasPermission(models.RoleSuperAdmin, PermSettingsManage))
	assert.True(t, RoleHasPermission(models.RoleSupport, PermUsersView))
	assert.False(t, RoleHasPermission(models.RoleSupport, PermUsersManage))
	assert.False(t, RoleHasPermission(models.Role("guest"), PermDashboardView))
	assert.ElementsMatch(t, AllPermissions, RolePermissions(models.RoleSuperAdmin))

	perms := RolePermissions(models.RoleSupport)
	perms[0] = "mutated"
	assert.Equal(t, PermDashboardView, RolePermissions(models.RoleSupport)[0])
}

func TestLocalAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := NewLocalProvider(db, "HabitAdmin")

	seedLocal(t, db, "root", "changeme")

	disabled := seedLocal(t, db, "gone", "changeme")
	require.NoError(t, db.Model(disabled).Update("active", false).Error)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "root", password: "changeme"},
		{name: "wrong password", username: "root", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ghost", password: "changeme", wantErr: ErrInvalidCredentials},
		{name: "disabled", username: "gone", password: "changeme", wantErr: ErrAdminDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := p.Authenticate(ctx, tt.username, tt.password, "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.username, a.Username)
		})
	}
}

func TestLocalTOTP(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := NewLocalProvider(db, "HabitAdmin")
	a := seedLocal(t, db, "root", "changeme")

	key, err := p.NewTOTPKey(a)
	require.NoError(t, err)
	assert.Contains(t, key.URL(), "HabitAdmin")

	require.ErrorIs(t, p.EnableTOTP(ctx, a, key.Secret(), "000000x"), ErrInvalidTOTP)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	require.NoError(t, p.EnableTOTP(ctx, a, key.Secret(), code))

	_, err = p.Authenticate(ctx, "root", "changeme", "")
	require.ErrorIs(t, err, ErrTOTPRequired)

	_, err = p.Authenticate(ctx, "root", "changeme", "123")
	require.ErrorIs(t, err, ErrInvalidTOTP)

	got, err := p.Authenticate(ctx, "root", "changeme", code)
	require.NoError(t, err)
	assert.True(t, got.HasTOTP())

	require.NoError(t, p.DisableTOTP(ctx, a, code))

	_, err = p.Authenticate(ctx, "root", "changeme", "")
	require.NoError(t, err)
}

func TestLocalTOTPRejectsBaaSAdmins(t *testing.T) {
	db := setupTestDB(t)
	p := NewLocalProvider(db, "HabitAdmin")

	a, err := admin.Promote(context.Background(), db, "user-1", "u@example.com", models.RoleSupport)
	require.NoError(t, err)

	_, err = p.NewTOTPKey(a)
	require.ErrorIs(t, err, ErrNotLocalAdmin)
}

func newProtectedApp(svc *Service, permission string) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequirePermission(svc, permission), func(c *fiber.Ctx) error {
		return c.SendString(CurrentAdmin(c).Username)
	})

	return app
}

func TestRequirePermission(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	verifier := NewTokenVerifier(testSecret, "authenticated")
	svc := NewService(db, verifier, NewLocalProvider(db, "HabitAdmin"))

	session.Init(nil)

	root := seedLocal(t, db, "root", "changeme")
	sessionID := session.GenerateSessionID()
	require.NoError(t, (&session.Data{Admin: *root}).Write(sessionID, time.Minute))

	_, err := admin.Promote(ctx, db, "support-user", "s@example.com", models.RoleSupport)
	require.NoError(t, err)

	supportToken, err := verifier.Sign("support-user", time.Hour)
	require.NoError(t, err)

	strangerToken, err := verifier.Sign("stranger", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		permission string
		cookie     string
		bearer     string
		wantStatus int
		wantBody   string
	}{
		{name: "no credentials", permission: PermUsersView, wantStatus: http.StatusUnauthorized},
		{name: "unknown session", permission: PermUsersView, cookie: "nope", wantStatus: http.StatusUnauthorized},
		{name: "session ok", permission: PermSettingsManage, cookie: sessionID, wantStatus: http.StatusOK, wantBody: "root"},
		{name: "token ok", permission: PermUsersView, bearer: supportToken, wantStatus: http.StatusOK, wantBody: "s@example.com"},
		{name: "token lacks permission", permission: PermSettingsManage, bearer: supportToken, wantStatus: http.StatusForbidden},
		{name: "token not an admin", permission: PermUsersView, bearer: strangerToken, wantStatus: http.StatusForbidden},
		{name: "bad token", permission: PermUsersView, bearer: "bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(svc, tt.permission)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, string(body))
				return
			}

			var out map[string]any
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, false, out["success"])
		})
	}
}

func TestRequirePermissionSeesDemotion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, NewLocalProvider(db, "HabitAdmin"))

	session.Init(nil)

	root := seedLocal(t, db, "root", "changeme")
	sessionID := session.GenerateSessionID()
	require.NoError(t, (&session.Data{Admin: *root}).Write(sessionID, time.Minute))

	require.NoError(t, db.Model(root).Update("role", models.RoleSupport).Error)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})

	resp, err := newProtectedApp(svc, PermSettingsManage).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
