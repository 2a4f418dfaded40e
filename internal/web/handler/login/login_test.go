package login

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler/handlertest"
	"github.com/habitrack/habit-admin/internal/web/session"
)

func newEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	db := handlertest.NewDB(t)
	env := handlertest.NewEnv(t, db)

	hash, err := models.HashPassword("changeme")
	require.NoError(t, err)

	_, err = admin.UpsertLocal(context.Background(), db, "root", "root@example.com", hash)
	require.NoError(t, err)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	return env
}

func sessionCookie(t *testing.T, resp handlertest.Response) string {
	t.Helper()

	for _, c := range resp.Cookies {
		if c.Name == session.CookieName {
			return c.Value
		}
	}

	t.Fatal("no session cookie")

	return ""
}

func TestPost(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{name: "ok", body: map[string]any{"username": "root", "password": "changeme"}, wantStatus: http.StatusOK},
		{name: "wrong password", body: map[string]any{"username": "root", "password": "x"}, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", body: map[string]any{"username": "nobody", "password": "changeme"}, wantStatus: http.StatusUnauthorized},
		{name: "missing password", body: map[string]any{"username": "root"}, wantStatus: http.StatusBadRequest},
		{name: "malformed code", body: map[string]any{"username": "root", "password": "changeme", "code": "12"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)

			resp := env.Do(t, handlertest.Request{Method: http.MethodPost, Path: Path + "/login", Body: tt.body})

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Body["success"])
		})
	}
}

func TestLoginThenMe(t *testing.T) {
	env := newEnv(t)

	resp := env.Do(t, handlertest.Request{
		Method: http.MethodPost,
		Path:   Path + "/login",
		Body:   map[string]any{"username": "root", "password": "changeme"},
	})
	require.Equal(t, http.StatusOK, resp.Status)

	who, _ := resp.Data()["admin"].(map[string]any)
	assert.Equal(t, "root", who["username"])
	assert.NotContains(t, who, "password")

	cookie := sessionCookie(t, resp)

	me := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path + "/me", Cookie: cookie})
	require.Equal(t, http.StatusOK, me.Status)
	assert.Equal(t, false, me.Data()["totp_enabled"])
	assert.Len(t, me.Data()["permissions"], 9)
	assert.Len(t, me.Data()["navigation"], 8)

	anon := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path + "/me"})
	assert.Equal(t, http.StatusUnauthorized, anon.Status)
}

func TestTOTPFlow(t *testing.T) {
	env := newEnv(t)
	login := func(code string) handlertest.Response {
		return env.Do(t, handlertest.Request{
			Method: http.MethodPost,
			Path:   Path + "/login",
			Body:   map[string]any{"username": "root", "password": "changeme", "code": code},
		})
	}

	cookie := sessionCookie(t, login(""))

	proposal := env.Do(t, handlertest.Request{Method: http.MethodPost, Path: Path + "/totp", Cookie: cookie})
	require.Equal(t, http.StatusOK, proposal.Status)

	secret, _ := proposal.Data()["secret"].(string)
	require.NotEmpty(t, secret)

	bad := env.Do(t, handlertest.Request{
		Method: http.MethodPost, Path: Path + "/totp", Cookie: cookie,
		Body: map[string]any{"secret": secret, "code": "000000"},
	})
	assert.Equal(t, http.StatusBadRequest, bad.Status)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	enabled := env.Do(t, handlertest.Request{
		Method: http.MethodPost, Path: Path + "/totp", Cookie: cookie,
		Body: map[string]any{"secret": secret, "code": code},
	})
	require.Equal(t, http.StatusOK, enabled.Status)

	withoutCode := login("")
	assert.Equal(t, http.StatusUnauthorized, withoutCode.Status)
	assert.Equal(t, true, withoutCode.Body["totp_required"])

	assert.Equal(t, http.StatusOK, login(code).Status)

	disabled := env.Do(t, handlertest.Request{
		Method: http.MethodDelete, Path: Path + "/totp", Cookie: cookie,
		Body: map[string]any{"code": code},
	})
	require.Equal(t, http.StatusOK, disabled.Status)
	assert.Equal(t, http.StatusOK, login("").Status)
}
