package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

func TestForUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Habit{ID: "h1", UserID: "u1", Title: "Read", CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Habit{ID: "h2", UserID: "u2", Title: "Run", CreatedAt: base}).Error)

	for i := range 25 {
		require.NoError(t, db.Create(&models.HabitLog{
			ID: fmt.Sprintf("l%02d", i), UserID: "u1", HabitID: "h1", Completed: i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	for i := range 35 {
		require.NoError(t, db.Create(&models.UserDailyUsage{
			UserID: "u1", UsageDate: models.DateOf(base).AddDays(i), MessageCount: i,
		}).Error)
	}

	ch := &models.Challenge{
		Title: "Early Bird", Type: models.ChallengeDaily,
		StartDate: models.DateOf(base), EndDate: models.DateOf(base).AddDays(5),
	}
	require.NoError(t, db.Create(ch).Error)
	require.NoError(t, db.Create(&models.UserChallenge{UserID: "u1", ChallengeID: ch.ID, Progress: 3}).Error)
	require.NoError(t, db.Create(&models.UserChallenge{UserID: "u1", ChallengeID: "deleted"}).Error)

	got, err := ForUser(ctx, db, "u1")
	require.NoError(t, err)

	require.Len(t, got.Habits, 1)
	assert.Equal(t, "Read", got.Habits[0].Title)

	require.Len(t, got.Logs, 20)
	assert.Equal(t, "l24", got.Logs[0].ID)
	require.NotNil(t, got.Logs[0].Habit)
	assert.Equal(t, "Read", got.Logs[0].Habit.Title)

	require.Len(t, got.Challenges, 2)

	var found, missing int
	for _, jc := range got.Challenges {
		if jc.Challenge != nil {
			found++
			assert.Equal(t, "Early Bird", jc.Challenge.Title)
			assert.Equal(t, 3, jc.Progress)
		} else {
			missing++
		}
	}

	assert.Equal(t, 1, found)
	assert.Equal(t, 1, missing)

	require.Len(t, got.Usage, 30)
	assert.Equal(t, 34, got.Usage[0].MessageCount)
}

func TestForUserEmpty(t *testing.T) {
	got, err := ForUser(context.Background(), setupTestDB(t), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got.Habits)
	assert.Empty(t, got.Logs)
	assert.Empty(t, got.Challenges)
	assert.Empty(t, got.Usage)
	assert.NotNil(t, got.Habits)
}

func TestCountCompletedLogs(t *testing.T) {
	db := setupTestDB(t)

	for i := range 5 {
		require.NoError(t, db.Create(&models.HabitLog{ID: fmt.Sprintf("l%d", i), UserID: "u1", Completed: i < 3}).Error)
	}

	n, err := CountCompletedLogs(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = CountCompletedLogs(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDBNil)
}
