package models

import "time"

// Habit is a habit defined by an app user.
type Habit struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index"      json:"user_id"`
	Title     string    `                          json:"title"`
	Frequency string    `gorm:"size:16"            json:"frequency,omitempty"`
	CreatedAt time.Time `                          json:"created_at"`
}

// HabitLog records one completion attempt of a habit.
type HabitLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index"      json:"user_id"`
	HabitID   string    `gorm:"size:36;index"      json:"habit_id"`
	Habit     *Habit    `gorm:"foreignKey:HabitID" json:"habit,omitempty"`
	Completed bool      `gorm:"index"              json:"completed"`
	CreatedAt time.Time `                          json:"created_at"`
}

// UserDailyUsage counts AI usage of an app user per day.
type UserDailyUsage struct {
	ID           uint64 `gorm:"primaryKey"    json:"id"`
	UserID       string `gorm:"size:36;index" json:"user_id"`
	UsageDate    Date   `gorm:"index"         json:"usage_date"`
	MessageCount int    `                     json:"message_count"`
}

// TableName keeps the singular table name used by the app.
func (UserDailyUsage) TableName() string {
	return "user_daily_usage"
}
