package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/postura/internal/models"
)

var ErrSettingsInvalid = errors.New("settings invalid")

type SettingsRepository interface {
	Find(userID uint) (models.Settings, bool, error)
	Upsert(settings *models.Settings) error
}

type SettingsService struct {
	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the stored settings, or the defaults when none were saved.
func (service *SettingsService) Get(userID uint) (models.Settings, error) {
	settings, found, err := service.settings.Find(userID)
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		settings = models.DefaultSettings()
		settings.UserID = userID
	}
	return settings, nil
}

func (service *SettingsService) Update(userID uint, update models.SettingsUpdate) (models.Settings, error) {
	current, err := service.Get(userID)
	if err != nil {
		return models.Settings{}, err
	}

	merged := update.Apply(current)
	if err := ValidateSettings(merged); err != nil {
		return models.Settings{}, err
	}

	merged.UserID = userID
	if err := service.settings.Upsert(&merged); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return merged, nil
}

func ValidateSettings(settings models.Settings) error {
	if settings.ReminderInterval <= 0 {
		return fmt.Errorf("%w: reminder interval must be positive", ErrSettingsInvalid)
	}
	if settings.Sensitivity < models.MinSensitivity || settings.Sensitivity > models.MaxSensitivity {
		return fmt.Errorf("%w: sensitivity must be between %.1f and %.1f", ErrSettingsInvalid, models.MinSensitivity, models.MaxSensitivity)
	}
	return nil
}
