// Package admin provides persistence for back office staff accounts.
package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/models"
)

var (
	// ErrAdminNotFound is returned when no admin matches.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrInvalidRole is returned for roles other than super_admin and support.
	ErrInvalidRole = errors.New("invalid admin role")
	// ErrLastSuperAdmin is returned when removing the only active super admin.
	ErrLastSuperAdmin = errors.New("cannot remove the last super admin")
	// ErrUserIDEmpty is returned when promoting without a user id.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List returns all admins, newest first.
func List(ctx context.Context, db *gorm.DB) ([]models.Admin, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Admin
	if err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

func first(ctx context.Context, db *gorm.DB, query string, arg any) (*models.Admin, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.Admin
	if err := db.WithContext(ctx).Where(query, arg).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}

		return nil, err
	}

	return &a, nil
}

// GetByID returns the admin with id.
func GetByID(ctx context.Context, db *gorm.DB, id string) (*models.Admin, error) {
	return first(ctx, db, "id = ?", id)
}

// GetByUsername returns the admin with username.
func GetByUsername(ctx context.Context, db *gorm.DB, username string) (*models.Admin, error) {
	return first(ctx, db, "username = ?", username)
}

// GetByUserID returns the admin linked to a BaaS user.
func GetByUserID(ctx context.Context, db *gorm.DB, userID string) (*models.Admin, error) {
	if userID == "" {
		return nil, ErrAdminNotFound
	}

	return first(ctx, db, "user_id = ?", userID)
}

// Promote grants role to a BaaS user. An existing admin for the user
// gets the new role.
func Promote(ctx context.Context, db *gorm.DB, userID, email string, role models.Role) (*models.Admin, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := GetByUserID(ctx, db, userID)

	switch {
	case err == nil:
		existing.Role = role
		existing.Active = true
		if email != "" {
			existing.Email = email
		}

		if err = db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}

		return existing, nil
	case !errors.Is(err, ErrAdminNotFound):
		return nil, err
	}

	a := &models.Admin{
		UserID:     userID,
		Email:      email,
		Username:   email,
		Role:       role,
		AuthSource: models.AuthSourceBaaS,
		Active:     true,
	}

	if a.Username == "" {
		a.Username = userID
	}

	if err = db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}

	return a, nil
}

// Remove deletes the admin with id, keeping at least one active super admin.
func Remove(ctx context.Context, db *gorm.DB, id string) error {
	a, err := GetByID(ctx, db, id)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.Role == models.RoleSuperAdmin {
			var supers int64
			if err := tx.Model(&models.Admin{}).
				Where("role = ? AND active = ?", models.RoleSuperAdmin, true).
				Count(&supers).Error; err != nil {
				return err
			}

			if supers <= 1 {
				return ErrLastSuperAdmin
			}
		}

		return tx.Delete(a).Error
	})
}

// UpsertLocal creates or resets a local super admin with a password hash.
func UpsertLocal(ctx context.Context, db *gorm.DB, username, email, passwordHash string) (*models.Admin, error) {
	a, err := GetByUsername(ctx, db, username)

	switch {
	case errors.Is(err, ErrAdminNotFound):
		a = &models.Admin{Username: username}
	case err != nil:
		return nil, err
	}

	a.Email = email
	a.Password = passwordHash
	a.Role = models.RoleSuperAdmin
	a.AuthSource = models.AuthSourceLocal
	a.Active = true

	if err = db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}

	return a, nil
}

// SetTOTPSecret stores or clears the TOTP secret of an admin.
func SetTOTPSecret(ctx context.Context, db *gorm.DB, id, secret string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("totp_secret", secret)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdminNotFound
	}

	return nil
}
