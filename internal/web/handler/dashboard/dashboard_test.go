package dashboard

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitrack/habit-admin/internal/baas"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler/handlertest"
)

func TestGet(t *testing.T) {
	db := handlertest.NewDB(t)
	env := handlertest.NewEnv(t, db)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))
	s.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	env.Users.Add(baas.User{ID: "u1"}, baas.User{ID: "u2"}, baas.User{ID: "u3"})

	for _, end := range []string{"2024-01-09", "2024-01-10", "2024-02-01"} {
		d, err := models.ParseDate(end)
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.Challenge{
			Title: "c" + end, Type: models.ChallengeDaily, StartDate: d.AddDays(-3), EndDate: d,
		}).Error)
	}

	require.NoError(t, db.Create(&models.Habit{ID: "h1", UserID: "u1", Title: "Read"}).Error)
	require.NoError(t, db.Create(&[]models.HabitLog{
		{ID: "l1", UserID: "u1", HabitID: "h1", Completed: true},
		{ID: "l2", UserID: "u1", HabitID: "h1", Completed: false},
	}).Error)

	support := env.Token(t, "support-1", models.RoleSupport)

	resp := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path, Token: support})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]any{
		"total_users":       float64(3),
		"active_challenges": float64(2),
		"completed_habits":  float64(1),
	}, resp.Data())
}

func TestGetDegradesWhenUsersUnavailable(t *testing.T) {
	env := handlertest.NewEnv(t, handlertest.NewDB(t))

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	env.Users.Err = errors.New("baas down")

	resp := env.Do(t, handlertest.Request{
		Method: http.MethodGet, Path: Path, Token: env.Token(t, "root", models.RoleSuperAdmin),
	})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, float64(0), resp.Data()["total_users"])
}

func TestGetRequiresAuth(t *testing.T) {
	env := handlertest.NewEnv(t, handlertest.NewDB(t))

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	resp := env.Do(t, handlertest.Request{Method: http.MethodGet, Path: Path})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}
