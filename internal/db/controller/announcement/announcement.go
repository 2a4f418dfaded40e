// Package announcement provides persistence for broadcast announcements.
package announcement

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/events"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Repository stores announcements and broadcasts them as events.
type Repository struct {
	DB       *gorm.DB
	Notifier *events.Notifier
}

// NewRepository returns a Repository. notifier may be nil.
func NewRepository(db *gorm.DB, notifier *events.Notifier) *Repository {
	return &Repository{DB: db, Notifier: notifier}
}

// List returns all announcements, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Announcement, error) {
	if r.DB == nil {
		return nil, ErrDBNil
	}

	var out []models.Announcement
	if err := r.DB.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// Send stores a and marks it sent. There is no delivery queue, the
// published insert event is what the app's push pipeline listens to.
func (r *Repository) Send(ctx context.Context, a *models.Announcement) error {
	if r.DB == nil {
		return ErrDBNil
	}

	if a.TargetAudience == "" {
		a.TargetAudience = models.AudienceAll
	}

	a.IsSent = true

	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return err
	}

	r.Notifier.Changed(ctx, events.TableAnnouncements, events.OpInsert, a)

	return nil
}
