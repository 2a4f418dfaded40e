// Package challenge provides persistence for the challenges table.
package challenge

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/events"
)

var (
	// ErrChallengeNotFound is returned when no challenge has the id.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Repository reads and writes challenges and publishes every change.
type Repository struct {
	DB       *gorm.DB
	Notifier *events.Notifier
}

// NewRepository returns a Repository. notifier may be nil.
func NewRepository(db *gorm.DB, notifier *events.Notifier) *Repository {
	return &Repository{DB: db, Notifier: notifier}
}

// List returns all challenges, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Challenge, error) {
	if r.DB == nil {
		return nil, ErrDBNil
	}

	var out []models.Challenge
	if err := r.DB.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// Get returns the challenge with id.
func (r *Repository) Get(ctx context.Context, id string) (*models.Challenge, error) {
	if r.DB == nil {
		return nil, ErrDBNil
	}

	var c models.Challenge
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}

		return nil, err
	}

	return &c, nil
}

// Insert stores c, assigning its id when empty.
func (r *Repository) Insert(ctx context.Context, c *models.Challenge) error {
	if r.DB == nil {
		return ErrDBNil
	}

	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}

	r.Notifier.Changed(ctx, events.TableChallenges, events.OpInsert, c)

	return nil
}

// Update replaces the editable fields of the challenge with id.
func (r *Repository) Update(ctx context.Context, id string, c *models.Challenge) (*models.Challenge, error) {
	if r.DB == nil {
		return nil, ErrDBNil
	}

	// MySQL reports zero affected rows for an unchanged row, so check existence first.
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	err := r.DB.WithContext(ctx).Model(&models.Challenge{}).Where("id = ?", id).
		Select("title", "description", "title_ar", "title_en", "description_ar", "description_en",
			"type", "bg_color", "start_date", "end_date", "mascot").
		Updates(c).Error
	if err != nil {
		return nil, err
	}

	updated, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Notifier.Changed(ctx, events.TableChallenges, events.OpUpdate, updated)

	return updated, nil
}

// Delete removes the challenge with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.DB == nil {
		return ErrDBNil
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Challenge{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChallengeNotFound
	}

	r.Notifier.Changed(ctx, events.TableChallenges, events.OpDelete, models.Challenge{ID: id})

	return nil
}

// CountActive counts challenges whose end date is on or after today.
func (r *Repository) CountActive(ctx context.Context, today models.Date) (int64, error) {
	if r.DB == nil {
		return 0, ErrDBNil
	}

	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Challenge{}).Where("end_date >= ?", today).Count(&n).Error

	return n, err
}

// ListByIDs returns the challenges with the given ids.
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]models.Challenge, error) {
	if r.DB == nil {
		return nil, ErrDBNil
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var out []models.Challenge
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}
