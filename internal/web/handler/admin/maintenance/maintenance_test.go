package maintenance

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/db/controller/appconfig"
	"github.com/habitrack/habit-admin/internal/db/controller/challenge"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/generator"
	"github.com/habitrack/habit-admin/internal/web/handler/handlertest"
)

func setup(t *testing.T) (*handlertest.Env, string) {
	t.Helper()

	env := handlertest.NewEnv(t, handlertest.NewDB(t))
	env.Deps.Policy = &autochallenge.Policy{
		Config:     appconfig.NewStore(env.Deps.DB, env.Deps.Notifier),
		Challenges: challenge.NewRepository(env.Deps.DB, env.Deps.Notifier),
		Generator:  generator.NewTemplateGenerator(generator.WithIntN(func(int) int { return 0 })),
		Now:        func() time.Time { return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC) },
	}

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	return env, env.Token(t, "root", models.RoleSuperAdmin)
}

func TestStatusIsPublic(t *testing.T) {
	env, token := setup(t)

	resp := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: StatusPath})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, false, resp.Data()["maintenance"])

	resp = env.Do(t, handlertest.Request{Method: http.MethodPut, Path: Path, Token: token, Body: map[string]any{"enabled": true}})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))

	resp = env.Do(t, handlertest.Request{Method: http.MethodGet, Path: StatusPath})
	assert.Equal(t, true, resp.Data()["maintenance"])
}

func TestToggleRequiresEnabled(t *testing.T) {
	env, token := setup(t)

	resp := env.Do(t, handlertest.Request{Method: http.MethodPut, Path: Path, Token: token, Body: map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestGetDefaults(t *testing.T) {
	env, token := setup(t)

	resp := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path, Token: token})
	require.Equal(t, http.StatusOK, resp.Status)

	state := resp.Data()["auto_challenge"].(map[string]any)
	assert.Equal(t, false, state["enabled"])
	assert.InDelta(t, 24, state["interval_hours"], 0)
	assert.Equal(t, "both", state["type"])
	assert.Nil(t, resp.Data()["next_run"])
}

func TestSaveAutoChallenge(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{name: "valid", body: map[string]any{"enabled": true, "interval_hours": 48, "type": "weekly"}, wantStatus: http.StatusOK},
		{name: "interval not offered", body: map[string]any{"enabled": true, "interval_hours": 5, "type": "weekly"}, wantStatus: http.StatusBadRequest},
		{name: "unknown type", body: map[string]any{"enabled": true, "interval_hours": 24, "type": "monthly"}, wantStatus: http.StatusBadRequest},
		{name: "missing enabled", body: map[string]any{"interval_hours": 24, "type": "both"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, token := setup(t)

			resp := env.Do(t, handlertest.Request{Method: http.MethodPut, Path: Path + "/auto-challenge", Token: token, Body: tt.body})
			require.Equal(t, tt.wantStatus, resp.Status, string(resp.Raw))

			if tt.wantStatus != http.StatusOK {
				return
			}

			state := resp.Data()["auto_challenge"].(map[string]any)
			assert.Equal(t, true, state["enabled"])
			assert.InDelta(t, 48, state["interval_hours"], 0)
			assert.Equal(t, "weekly", state["type"])
		})
	}
}

func TestManualRunBypassesEnabled(t *testing.T) {
	env, token := setup(t)

	resp := env.Do(t, handlertest.Request{Method: http.MethodPost, Path: Path + "/auto-challenge/run", Token: token})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	assert.NotEmpty(t, resp.Data()["title"])
	assert.Equal(t, true, resp.Data()["last_run_recorded"])

	created := resp.Data()["challenge"].(map[string]any)
	assert.Equal(t, "2024-01-11", created["start_date"])

	list, err := challenge.NewRepository(env.Deps.DB, nil).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	overview := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path, Token: token})
	assert.NotNil(t, overview.Data()["next_run"])
}

func TestSupportCannotManage(t *testing.T) {
	env, _ := setup(t)

	resp := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path, Token: env.Token(t, "helper", models.RoleSupport)})
	assert.Equal(t, http.StatusForbidden, resp.Status)
}
