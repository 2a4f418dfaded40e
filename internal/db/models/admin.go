package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuthSource tells how an admin signs in.
type AuthSource string

const (
	// AuthSourceLocal admins sign in with a local argon2id password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceBaaS admins present an access token issued by the BaaS auth service.
	AuthSourceBaaS AuthSource = "baas"
)

// Role is the staff role of an admin.
type Role string

const (
	// RoleSuperAdmin may do everything.
	RoleSuperAdmin Role = "super_admin"
	// RoleSupport may view the dashboard and users.
	RoleSupport Role = "support"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleSupport
}

// Admin is a staff account of the back office.
type Admin struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// UserID is the BaaS user id for AuthSourceBaaS admins.
	UserID   string `gorm:"size:36;index"   json:"user_id,omitempty"`
	Email    string `gorm:"size:255"        json:"email"`
	Username string `gorm:"size:100;unique" json:"username"`
	// Password is the argon2id hash, local admins only.
	Password   string     `gorm:"size:255"                          json:"-"`
	TOTPSecret string     `gorm:"size:64"                           json:"-"`
	Role       Role       `gorm:"size:20;not null;default:'support'" json:"role"`
	AuthSource AuthSource `gorm:"size:20;not null;default:'local'"  json:"auth_source"`
	Active     bool       `                                         json:"active"`
	CreatedAt  time.Time  `                                         json:"created_at"`
	UpdatedAt  time.Time  `                                         json:"updated_at"`
}

// BeforeCreate assigns a uuid when none was given.
func (a *Admin) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}

// HasTOTP reports whether two factor login is enrolled.
func (a *Admin) HasTOTP() bool {
	return a.TOTPSecret != ""
}

// HashPassword hashes a plaintext password using argon2id default params.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword checks password against the stored hash in constant time.
func (a *Admin) VerifyPassword(password string) bool {
	if a.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, a.Password)
	if err != nil {
		log.Error().Err(err).Str("admin", a.Username).Msg("failed to verify password")

		return false
	}

	return match
}

// All returns every model for auto migration.
func All() []any {
	return []any{
		&AppConfig{},
		&Challenge{},
		&UserChallenge{},
		&Announcement{},
		&SubscriptionPlan{},
		&Habit{},
		&HabitLog{},
		&UserDailyUsage{},
		&Admin{},
	}
}
