// Package plan provides persistence for subscription plans.
package plan

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/models"
)

var (
	// ErrPlanNotFound is returned when no plan has the id.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List returns all plans, cheapest first.
func List(ctx context.Context, db *gorm.DB) ([]models.SubscriptionPlan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var plans []models.SubscriptionPlan
	if err := db.WithContext(ctx).Order("price asc").Find(&plans).Error; err != nil {
		return nil, err
	}

	return plans, nil
}

// Get returns the plan with id.
func Get(ctx context.Context, db *gorm.DB, id string) (*models.SubscriptionPlan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.SubscriptionPlan
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}

		return nil, err
	}

	return &p, nil
}

// Create stores a new plan.
func Create(ctx context.Context, db *gorm.DB, p *models.SubscriptionPlan) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Create(p).Error
}

// Update applies the non nil fields of u to the plan with id.
func Update(ctx context.Context, db *gorm.DB, id string, u Patch) (*models.SubscriptionPlan, error) {
	p, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	changes := u.columns()
	if len(changes) == 0 {
		return p, nil
	}

	if err = db.WithContext(ctx).Model(p).Updates(changes).Error; err != nil {
		return nil, err
	}

	return Get(ctx, db, id)
}

// SetActive switches the plan on or off.
func SetActive(ctx context.Context, db *gorm.DB, id string, active bool) (*models.SubscriptionPlan, error) {
	return Update(ctx, db, id, Patch{IsActive: &active})
}

// Patch is a partial plan update. Nil fields are left untouched.
type Patch struct {
	Name           *string   `json:"name"             validate:"omitempty,min=1,max=100"`
	Price          *float64  `json:"price"            validate:"omitempty,gte=0"`
	Currency       *string   `json:"currency"         validate:"omitempty,len=3"`
	Interval       *string   `json:"interval"         validate:"omitempty,oneof=month year week lifetime"`
	AIMessageLimit *int      `json:"ai_message_limit" validate:"omitempty,gte=0"`
	Features       *[]string `json:"features"`
	IsActive       *bool     `json:"is_active"`
}

func (u Patch) columns() map[string]any {
	out := map[string]any{}

	if u.Name != nil {
		out["name"] = *u.Name
	}
	if u.Price != nil {
		out["price"] = *u.Price
	}
	if u.Currency != nil {
		out["currency"] = *u.Currency
	}
	if u.Interval != nil {
		out["interval"] = *u.Interval
	}
	if u.AIMessageLimit != nil {
		out["ai_message_limit"] = *u.AIMessageLimit
	}
	if u.Features != nil {
		out["features"] = models.StringList(*u.Features)
	}
	if u.IsActive != nil {
		out["is_active"] = *u.IsActive
	}

	return out
}
