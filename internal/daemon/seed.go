package daemon

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/uniuri"
)

// SeedAdmin creates or resets the local super admin. An empty password is
// replaced by a random one, which is returned.
func SeedAdmin(ctx context.Context, db *gorm.DB, username, email, password string) (string, error) {
	if password == "" {
		password = uniuri.Password()
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return "", err
	}

	a, err := admin.UpsertLocal(ctx, db, username, email, hash)
	if err != nil {
		return "", err
	}

	log.Info().Str("admin", a.Username).Str("id", a.ID).Msg("local super admin seeded")

	return password, nil
}
