package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeType is the cadence of a challenge.
type ChallengeType string

const (
	// ChallengeDaily must be completed every day of its range.
	ChallengeDaily ChallengeType = "daily"
	// ChallengeWeekly is completed over a week.
	ChallengeWeekly ChallengeType = "weekly"
)

// Valid reports whether t is daily or weekly.
func (t ChallengeType) Valid() bool {
	return t == ChallengeDaily || t == ChallengeWeekly
}

// Normalize lowercases and trims t.
func (t ChallengeType) Normalize() ChallengeType {
	return ChallengeType(strings.ToLower(strings.TrimSpace(string(t))))
}

// Challenge is a row of the challenges table shown to app users.
type Challenge struct {
	ID            string        `gorm:"primaryKey;size:36"   json:"id"`
	Title         string        `gorm:"not null"             json:"title"`
	Description   string        `gorm:"type:text"            json:"description"`
	TitleAr       string        `                            json:"title_ar,omitempty"`
	TitleEn       string        `                            json:"title_en,omitempty"`
	DescriptionAr string        `gorm:"type:text"            json:"description_ar,omitempty"`
	DescriptionEn string        `gorm:"type:text"            json:"description_en,omitempty"`
	Type          ChallengeType `gorm:"size:16;not null"     json:"type"`
	BgColor       string        `gorm:"size:16"              json:"bg_color"`
	StartDate     Date          `gorm:"not null"             json:"start_date"`
	EndDate       Date          `gorm:"not null;index"       json:"end_date"`
	Mascot        string        `gorm:"size:32"              json:"mascot,omitempty"`
	CreatedAt     time.Time     `gorm:"index"                json:"created_at"`
}

// BeforeCreate assigns a uuid when none was given.
func (c *Challenge) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}

// UserChallenge links an app user to a joined challenge.
type UserChallenge struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;index"      json:"user_id"`
	ChallengeID string     `gorm:"size:36;index"      json:"challenge_id"`
	Progress    int        `                          json:"progress"`
	Completed   bool       `                          json:"completed"`
	CompletedAt *time.Time `                          json:"completed_at,omitempty"`
	JoinedAt    time.Time  `gorm:"autoCreateTime"     json:"joined_at"`
}

// BeforeCreate assigns a uuid when none was given.
func (u *UserChallenge) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}
