// Package localstore keeps the posturectl profile, settings and sessions in
// a sqlite file on the tracking machine.
package localstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// The profile and settings tables hold a single row.
const singletonID = 1

type profileRow struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Age         int
	Gender      string
	Height      float64
	Weight      float64
	FitnessGoal string
	CreatedAt   time.Time
}

func (profileRow) TableName() string { return "user_profile" }

type settingsRow struct {
	ID               uint `gorm:"primaryKey"`
	ReminderInterval int
	Sensitivity      float64
	EnableReminders  bool
	EnableCamera     bool
	UpdatedAt        time.Time
}

func (settingsRow) TableName() string { return "settings" }

type sessionRow struct {
	ID              string `gorm:"primaryKey"`
	StartTime       time.Time
	EndTime         *time.Time
	TotalTime       int
	GoodPostureTime int
	AverageScore    int
	Issues          []models.PostureIssue `gorm:"serializer:json"`
	Scores          []models.ScoreSample  `gorm:"serializer:json"`
	Device          models.DeviceInfo     `gorm:"embedded;embeddedPrefix:device_"`
	CreatedAt       time.Time
	SyncedAt        *time.Time
}

func (sessionRow) TableName() string { return "sessions" }

type Store struct {
	database *gorm.DB
}

func Open(path string, logger *zap.Logger) (*Store, error) {
	database, err := db.Open(path, migrations.Local(), logger)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return &Store{database: database}, nil
}

func (store *Store) Close() error {
	return db.Close(store.database)
}

func (store *Store) SaveProfile(profile models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	row := profileRow{
		ID:          singletonID,
		Name:        profile.Name,
		Age:         profile.Age,
		Gender:      profile.Gender,
		Height:      profile.Height,
		Weight:      profile.Weight,
		FitnessGoal: profile.FitnessGoal,
		CreatedAt:   profile.CreatedAt,
	}
	return store.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// GetProfile reports found=false when no profile was saved yet.
func (store *Store) GetProfile() (models.Profile, bool, error) {
	var row profileRow
	err := store.database.First(&row, singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		return models.Profile{}, false, err
	}
	return models.Profile{
		Name:        row.Name,
		Age:         row.Age,
		Gender:      row.Gender,
		Height:      row.Height,
		Weight:      row.Weight,
		FitnessGoal: row.FitnessGoal,
		CreatedAt:   row.CreatedAt,
	}, true, nil
}

func (store *Store) DeleteProfile() error {
	return store.database.Delete(&profileRow{}, singletonID).Error
}

func (store *Store) SaveSettings(settings models.Settings) error {
	row := settingsRow{
		ID:               singletonID,
		ReminderInterval: settings.ReminderInterval,
		Sensitivity:      settings.Sensitivity,
		EnableReminders:  settings.EnableReminders,
		EnableCamera:     settings.EnableCamera,
	}
	return store.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// GetSettings returns the defaults with found=false when nothing was saved.
func (store *Store) GetSettings() (models.Settings, bool, error) {
	var row settingsRow
	err := store.database.First(&row, singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), false, nil
	}
	if err != nil {
		return models.Settings{}, false, err
	}
	return models.Settings{
		ReminderInterval: row.ReminderInterval,
		Sensitivity:      row.Sensitivity,
		EnableReminders:  row.EnableReminders,
		EnableCamera:     row.EnableCamera,
		UpdatedAt:        row.UpdatedAt,
	}, true, nil
}

func (store *Store) DeleteSettings() error {
	return store.database.Delete(&settingsRow{}, singletonID).Error
}

// SaveSession inserts or replaces a session. Replacing clears its sync mark.
func (store *Store) SaveSession(session models.PostureSession) error {
	if session.ID == "" {
		return fmt.Errorf("save session: empty id")
	}
	row := toSessionRow(session)
	return store.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (store *Store) ListSessions() ([]models.PostureSession, error) {
	return store.listSessions(store.database)
}

func (store *Store) ListUnsynced() ([]models.PostureSession, error) {
	return store.listSessions(store.database.Where("synced_at IS NULL"))
}

func (store *Store) listSessions(query *gorm.DB) ([]models.PostureSession, error) {
	var rows []sessionRow
	if err := query.Order("start_time DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	sessions := make([]models.PostureSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toModel())
	}
	return sessions, nil
}

func (store *Store) GetSession(id string) (models.PostureSession, error) {
	var row sessionRow
	err := store.database.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PostureSession{}, ErrNotFound
	}
	if err != nil {
		return models.PostureSession{}, err
	}
	return row.toModel(), nil
}

func (store *Store) DeleteSession(id string) error {
	result := store.database.Where("id = ?", id).Delete(&sessionRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *Store) MarkSynced(id string, at time.Time) error {
	result := store.database.Model(&sessionRow{}).Where("id = ?", id).Update("synced_at", at.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *Store) ClearSessions() error {
	return store.database.Where("1 = 1").Delete(&sessionRow{}).Error
}

// ClearAll empties every table in one transaction.
func (store *Store) ClearAll() error {
	return store.database.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&sessionRow{}, &profileRow{}, &settingsRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func toSessionRow(session models.PostureSession) sessionRow {
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return sessionRow{
		ID:              session.ID,
		StartTime:       session.StartTime.UTC(),
		EndTime:         utcPointer(session.EndTime),
		TotalTime:       session.TotalTime,
		GoodPostureTime: session.GoodPostureTime,
		AverageScore:    session.AverageScore,
		Issues:          session.Issues,
		Scores:          session.Scores,
		Device:          session.Device,
		CreatedAt:       createdAt,
	}
}

func (row sessionRow) toModel() models.PostureSession {
	return models.PostureSession{
		ID:              row.ID,
		StartTime:       row.StartTime,
		EndTime:         row.EndTime,
		TotalTime:       row.TotalTime,
		GoodPostureTime: row.GoodPostureTime,
		AverageScore:    row.AverageScore,
		Issues:          row.Issues,
		Scores:          row.Scores,
		Device:          row.Device,
		CreatedAt:       row.CreatedAt,
	}
}

func utcPointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
