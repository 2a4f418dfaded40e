package logout

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler/handlertest"
	"github.com/habitrack/habit-admin/internal/web/session"
)

func TestLogout(t *testing.T) {
	env := handlertest.NewEnv(t, handlertest.NewDB(t))

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	sessionID := session.GenerateSessionID()
	require.NoError(t, (&session.Data{Admin: models.Admin{ID: "a1"}}).Write(sessionID, time.Minute))

	resp := env.Do(t, handlertest.Request{Method: http.MethodPost, Path: Path, Cookie: sessionID})

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, true, resp.Body["success"])
	require.ErrorIs(t, new(session.Data).Read(sessionID), session.ErrNotFound)

	anon := env.Do(t, handlertest.Request{Method: http.MethodPost, Path: Path})
	assert.Equal(t, http.StatusOK, anon.Status)
}
