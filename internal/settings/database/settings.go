package database

import (
	"context"

	"github.com/hasinarivo/expense-tracker/internal/settings"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository implements the settings.Repository interface using GORM
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) settings.Repository {
	return &SettingsRepository{db: db}
}

// GetAll reads every stored key-value pair.
func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []settings.Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Set upserts one key-value pair.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&settings.Setting{Key: key, Value: value}).Error
}
