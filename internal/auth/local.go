package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db     *gorm.DB
	issuer string
}

// NewLocalProvider creates a new local authentication provider. issuer is
// shown by authenticator apps next to the account name.
func NewLocalProvider(db *gorm.DB, issuer string) *LocalProvider {
	return &LocalProvider{
		db:     db,
		issuer: issuer,
	}
}

// Authenticate checks username, password and, when enrolled, the TOTP passcode.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password, passcode string) (*models.Admin, error) {
	a, err := admin.GetByUsername(ctx, p.db, username)
	if errors.Is(err, admin.ErrAdminNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	if a.AuthSource != models.AuthSourceLocal || !a.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !a.Active {
		return nil, ErrAdminDisabled
	}

	if a.HasTOTP() {
		if passcode == "" {
			return nil, ErrTOTPRequired
		}

		if !totp.Validate(passcode, a.TOTPSecret) {
			return nil, ErrInvalidTOTP
		}
	}

	return a, nil
}

// NewTOTPKey creates a fresh secret for a local admin. Nothing is stored
// until EnableTOTP confirms a passcode for it.
func (p *LocalProvider) NewTOTPKey(a *models.Admin) (*otp.Key, error) {
	if a.AuthSource != models.AuthSourceLocal {
		return nil, ErrNotLocalAdmin
	}

	account := a.Email
	if account == "" {
		account = a.Username
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp key: %w", err)
	}

	return key, nil
}

// EnableTOTP stores secret once passcode proves the admin's app is set up.
func (p *LocalProvider) EnableTOTP(ctx context.Context, a *models.Admin, secret, passcode string) error {
	if a.AuthSource != models.AuthSourceLocal {
		return ErrNotLocalAdmin
	}

	if secret == "" || !totp.Validate(passcode, secret) {
		return ErrInvalidTOTP
	}

	return admin.SetTOTPSecret(ctx, p.db, a.ID, secret) //nolint:wrapcheck
}

// DisableTOTP clears the secret after checking a current passcode.
func (p *LocalProvider) DisableTOTP(ctx context.Context, a *models.Admin, passcode string) error {
	current, err := admin.GetByID(ctx, p.db, a.ID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !current.HasTOTP() {
		return nil
	}

	if !totp.Validate(passcode, current.TOTPSecret) {
		return ErrInvalidTOTP
	}

	return admin.SetTOTPSecret(ctx, p.db, a.ID, "") //nolint:wrapcheck
}
