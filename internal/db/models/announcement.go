package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audience selects which app users receive an announcement.
type Audience string

// Known audiences.
const (
	AudienceAll      Audience = "all"
	AudienceActive   Audience = "active"
	AudienceInactive Audience = "inactive"
)

// Announcement is a broadcast message to app users.
type Announcement struct {
	ID             string    `gorm:"primaryKey;size:36"          json:"id"`
	Title          string    `gorm:"not null"                    json:"title"`
	Body           string    `gorm:"type:text;not null"          json:"body"`
	TargetAudience Audience  `gorm:"size:16;not null;default:'all'" json:"target_audience"`
	IsSent         bool      `                                   json:"is_sent"`
	CreatedAt      time.Time `gorm:"index"                       json:"created_at"`
}

// BeforeCreate assigns a uuid when none was given.
func (a *Announcement) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}
