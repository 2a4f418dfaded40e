package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionPlan is a purchasable plan of the mobile app.
type SubscriptionPlan struct {
	ID             string     `gorm:"primaryKey;size:36"          json:"id"`
	Name           string     `gorm:"not null"                    json:"name"`
	Price          float64    `gorm:"index"                       json:"price"`
	Currency       string     `gorm:"size:8"                      json:"currency"`
	Interval       string     `gorm:"size:16"                     json:"interval"`
	AIMessageLimit int        `gorm:"column:ai_message_limit"     json:"ai_message_limit"`
	Features       StringList `gorm:"type:text"                  json:"features"`
	IsActive       bool       `                                   json:"is_active"`
	CreatedAt      time.Time  `                                   json:"created_at"`
}

// BeforeCreate assigns a uuid when none was given.
func (p *SubscriptionPlan) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}

// StringList is a list of strings stored as a JSON text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*l = nil

		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("models.StringList: cannot scan %T", src) //nolint:err113
	}

	return json.Unmarshal(raw, (*[]string)(l)) //nolint:wrapcheck
}
