package autochallenge_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/db/controller/appconfig"
	"github.com/habitrack/habit-admin/internal/db/controller/challenge"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/events"
	"github.com/habitrack/habit-admin/internal/generator"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.AutoMigrate(&models.AppConfig{}, &models.Challenge{}), "failed to migrate test database")

	return db
}

func TestPolicyWithDatabase(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	pub := &events.MemoryPublisher{}
	notifier := events.NewNotifier(pub, "habitadmin")

	store := appconfig.NewStore(db, notifier)
	require.NoError(t, store.Set(ctx, models.KeyAutoChallengeEnabled, "true"))
	require.NoError(t, store.Set(ctx, models.KeyAutoChallengeType, "weekly"))

	now := time.Date(2024, time.March, 5, 18, 0, 0, 0, time.UTC)
	p := &autochallenge.Policy{
		Config:     store,
		Challenges: challenge.NewRepository(db, notifier),
		Generator:  generator.NewTemplateGenerator(generator.WithIntN(func(int) int { return 0 })),
		Now:        func() time.Time { return now },
	}

	res, err := p.Evaluate(ctx, autochallenge.TriggerScheduled)
	require.NoError(t, err)
	require.Equal(t, autochallenge.OutcomeCreated, res.Outcome)
	assert.Equal(t, "Early Bird", res.Title)

	var stored []models.Challenge
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, models.ChallengeWeekly, stored[0].Type)
	assert.Equal(t, "2024-03-06", stored[0].StartDate.String())
	assert.Equal(t, "2024-03-11", stored[0].EndDate.String())

	lastRun, err := appconfig.Get(ctx, db, models.KeyAutoChallengeLastRun)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T18:00:00Z", lastRun.Value)

	state := autochallenge.ParseState(map[string]string{models.KeyAutoChallengeLastRun: lastRun.Value})
	require.NotNil(t, state.LastRun)
	assert.True(t, now.Equal(*state.LastRun))

	var subjects []string
	for _, m := range pub.Messages() {
		subjects = append(subjects, m.Subject)
	}

	assert.Contains(t, subjects, "habitadmin.challenges.insert")
}
