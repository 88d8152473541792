package models

import "time"

const (
	DefaultReminderInterval = 15
	DefaultSensitivity      = 0.7
	MinSensitivity          = 0.1
	MaxSensitivity          = 1.0
)

type Settings struct {
	UserID           uint      `gorm:"primaryKey" json:"-"`
	ReminderInterval int       `gorm:"not null;default:15" json:"reminderInterval"`
	Sensitivity      float64   `gorm:"not null;default:0.7" json:"sensitivity"`
	EnableReminders  bool      `gorm:"not null" json:"enableReminders"`
	EnableCamera     bool      `gorm:"not null" json:"enableCamera"`
	UpdatedAt        time.Time `json:"-"`
}

func DefaultSettings() Settings {
	return Settings{
		ReminderInterval: DefaultReminderInterval,
		Sensitivity:      DefaultSensitivity,
		EnableReminders:  true,
		EnableCamera:     true,
	}
}

// SettingsUpdate carries a partial settings change; nil fields are left untouched.
type SettingsUpdate struct {
	ReminderInterval *int     `json:"reminderInterval" validate:"omitempty,gt=0,lte=1440"`
	Sensitivity      *float64 `json:"sensitivity" validate:"omitempty,gte=0.1,lte=1"`
	EnableReminders  *bool    `json:"enableReminders"`
	EnableCamera     *bool    `json:"enableCamera"`
}

func (update SettingsUpdate) IsEmpty() bool {
	return update.ReminderInterval == nil &&
		update.Sensitivity == nil &&
		update.EnableReminders == nil &&
		update.EnableCamera == nil
}

// Apply merges the provided fields into settings.
func (update SettingsUpdate) Apply(settings Settings) Settings {
	if update.ReminderInterval != nil {
		settings.ReminderInterval = *update.ReminderInterval
	}
	if update.Sensitivity != nil {
		settings.Sensitivity = *update.Sensitivity
	}
	if update.EnableReminders != nil {
		settings.EnableReminders = *update.EnableReminders
	}
	if update.EnableCamera != nil {
		settings.EnableCamera = *update.EnableCamera
	}
	return settings
}

func (Settings) TableName() string {
	return "settings"
}
