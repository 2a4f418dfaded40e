// Package activity reads app user activity for the admin user view and dashboard.
package activity

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/models"
)

const (
	recentLogLimit   = 20
	recentUsageLimit = 30
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// JoinedChallenge is a user_challenges row with its challenge attached.
// Challenge is nil when the challenge was deleted.
type JoinedChallenge struct {
	models.UserChallenge
	Challenge *models.Challenge `json:"challenge"`
}

// UserActivity is everything the admin sees about one app user besides the auth record.
type UserActivity struct {
	Habits     []models.Habit          `json:"habits"`
	Logs       []models.HabitLog       `json:"logs"`
	Challenges []JoinedChallenge       `json:"challenges"`
	Usage      []models.UserDailyUsage `json:"usage"`
}

// ForUser loads habits, the latest logs, joined challenges and the latest daily usage.
func ForUser(ctx context.Context, db *gorm.DB, userID string) (*UserActivity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.WithContext(ctx)
	out := &UserActivity{
		Habits:     []models.Habit{},
		Logs:       []models.HabitLog{},
		Challenges: []JoinedChallenge{},
		Usage:      []models.UserDailyUsage{},
	}

	if err := tx.Where("user_id = ?", userID).Order("created_at desc").Find(&out.Habits).Error; err != nil {
		return nil, err
	}

	if err := tx.Preload("Habit").Where("user_id = ?", userID).
		Order("created_at desc").Limit(recentLogLimit).Find(&out.Logs).Error; err != nil {
		return nil, err
	}

	var joined []models.UserChallenge
	if err := tx.Where("user_id = ?", userID).Find(&joined).Error; err != nil {
		return nil, err
	}

	if len(joined) > 0 {
		ids := make([]string, 0, len(joined))
		for _, uc := range joined {
			ids = append(ids, uc.ChallengeID)
		}

		var details []models.Challenge
		if err := tx.Where("id IN ?", ids).Find(&details).Error; err != nil {
			return nil, err
		}

		byID := make(map[string]*models.Challenge, len(details))
		for i := range details {
			byID[details[i].ID] = &details[i]
		}

		for _, uc := range joined {
			out.Challenges = append(out.Challenges, JoinedChallenge{UserChallenge: uc, Challenge: byID[uc.ChallengeID]})
		}
	}

	if err := tx.Where("user_id = ?", userID).Order("usage_date desc").
		Limit(recentUsageLimit).Find(&out.Usage).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// CountCompletedLogs counts habit logs marked completed.
func CountCompletedLogs(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	err := db.WithContext(ctx).Model(&models.HabitLog{}).Where("completed = ?", true).Count(&n).Error

	return n, err
}
