// Package appconfig provides CRUD operations for the app_config key/value table.
//
// "key" is reserved in MySQL, so queries use struct conditions and clause
// columns which gorm quotes per dialect.
package appconfig

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/events"
)

var (
	// ErrEntryNotFound is returned when a key does not exist.
	ErrEntryNotFound = errors.New("config entry not found")
	// ErrKeyEmpty is returned when a key is empty.
	ErrKeyEmpty = errors.New("config key cannot be empty")
	// ErrEntryAlreadyExists is returned when creating a key that already exists.
	ErrEntryAlreadyExists = errors.New("config entry already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves an entry by key.
func Get(ctx context.Context, db *gorm.DB, key string) (*models.AppConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrKeyEmpty
	}

	var entry models.AppConfig
	result := db.WithContext(ctx).Where(&models.AppConfig{Key: key}).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, result.Error
	}

	return &entry, nil
}

// List returns all entries ordered by key.
func List(ctx context.Context, db *gorm.DB) ([]models.AppConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.AppConfig
	if err := db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// GetAll returns all entries as a key to value map, read in one query.
func GetAll(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	entries, err := List(ctx, db)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}

	return out, nil
}

// Create inserts a new entry, failing if the key exists.
func Create(ctx context.Context, db *gorm.DB, key, value string) (*models.AppConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrKeyEmpty
	}

	var existing models.AppConfig
	result := db.WithContext(ctx).Where(&models.AppConfig{Key: key}).First(&existing)
	if result.Error == nil {
		return nil, ErrEntryAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	entry := &models.AppConfig{Key: key, Value: value}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}

	return entry, nil
}

// Set creates or replaces the value of key in a single upsert.
func Set(ctx context.Context, db *gorm.DB, key, value string) (*models.AppConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrKeyEmpty
	}

	entry := &models.AppConfig{Key: key, Value: value}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// Update changes the value of an existing key.
func Update(ctx context.Context, db *gorm.DB, key, value string) (*models.AppConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrKeyEmpty
	}

	result := db.WithContext(ctx).Model(&models.AppConfig{}).Where(&models.AppConfig{Key: key}).Update("value", value)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrEntryNotFound
	}

	return &models.AppConfig{Key: key, Value: value}, nil
}

// Delete removes key.
func Delete(ctx context.Context, db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrKeyEmpty
	}

	result := db.WithContext(ctx).Where(&models.AppConfig{Key: key}).Delete(&models.AppConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Store binds the package functions to a connection and publishes changes.
type Store struct {
	DB       *gorm.DB
	Notifier *events.Notifier
}

// NewStore returns a Store. notifier may be nil.
func NewStore(db *gorm.DB, notifier *events.Notifier) *Store {
	return &Store{DB: db, Notifier: notifier}
}

// GetAll returns all entries as a map.
func (s *Store) GetAll(ctx context.Context) (map[string]string, error) {
	return GetAll(ctx, s.DB)
}

// List returns all entries ordered by key.
func (s *Store) List(ctx context.Context) ([]models.AppConfig, error) {
	return List(ctx, s.DB)
}

// Get returns the entry for key.
func (s *Store) Get(ctx context.Context, key string) (*models.AppConfig, error) {
	return Get(ctx, s.DB, key)
}

// Create inserts a new entry.
func (s *Store) Create(ctx context.Context, key, value string) (*models.AppConfig, error) {
	entry, err := Create(ctx, s.DB, key, value)
	if err != nil {
		return nil, err
	}

	s.Notifier.Changed(ctx, events.TableAppConfig, events.OpInsert, entry)

	return entry, nil
}

// Set upserts key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	entry, err := Set(ctx, s.DB, key, value)
	if err != nil {
		return err
	}

	s.Notifier.Changed(ctx, events.TableAppConfig, events.OpUpdate, entry)

	return nil
}

// Update changes an existing key.
func (s *Store) Update(ctx context.Context, key, value string) (*models.AppConfig, error) {
	entry, err := Update(ctx, s.DB, key, value)
	if err != nil {
		return nil, err
	}

	s.Notifier.Changed(ctx, events.TableAppConfig, events.OpUpdate, entry)

	return entry, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := Delete(ctx, s.DB, key); err != nil {
		return err
	}

	s.Notifier.Changed(ctx, events.TableAppConfig, events.OpDelete, models.AppConfig{Key: key})

	return nil
}
