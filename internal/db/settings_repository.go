package db

import (
	"errors"

	"github.com/terraincognita07/postura/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

// Find returns the stored settings row; found is false when the account has
// never saved settings.
func (repo *SettingsRepository) Find(userID uint) (models.Settings, bool, error) {
	var settings models.Settings
	err := repo.database.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, err
	}
	return settings, true, nil
}

func (repo *SettingsRepository) Upsert(settings *models.Settings) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reminder_interval", "sensitivity", "enable_reminders", "enable_camera", "updated_at"}),
	}).Create(settings).Error
}
