package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/postura/internal/models"
)

func ptr[T any](value T) *T {
	return &value
}

func TestProfileUpdateOverwritesOnlyProvidedFields(t *testing.T) {
	users := newStubUserRepository()
	users.users[1] = models.User{ID: 1, Name: "Ann", Age: 30, Gender: models.GenderFemale, Height: 170, FitnessGoal: models.GoalStrength}
	service := NewProfileService(users)

	updated, err := service.Update(1, models.ProfileUpdate{Weight: ptr(62.5)})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Name != "Ann" || updated.Age != 30 || updated.Height != 170 || updated.FitnessGoal != models.GoalStrength {
		t.Fatalf("expected untouched fields to survive, got %#v", updated)
	}
	if updated.Weight != 62.5 || users.users[1].Weight != 62.5 {
		t.Fatalf("expected weight 62.5, got %v", updated.Weight)
	}

	if _, err := service.Update(1, models.ProfileUpdate{Age: ptr(0)}); err != nil {
		t.Fatalf("expected clearing age to pass, got %v", err)
	}
	if _, err := service.Update(1, models.ProfileUpdate{Name: ptr("  ")}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for blank name, got %v", err)
	}
	if _, err := service.Update(1, models.ProfileUpdate{Gender: ptr("robot")}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for unknown gender, got %v", err)
	}
}

func TestSettingsGetReturnsDefaultsWhenAbsent(t *testing.T) {
	service := NewSettingsService(&stubSettingsRepository{})

	settings, err := service.Get(5)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	defaults := models.DefaultSettings()
	if settings.ReminderInterval != defaults.ReminderInterval || settings.Sensitivity != defaults.Sensitivity ||
		!settings.EnableReminders || !settings.EnableCamera {
		t.Fatalf("expected defaults, got %#v", settings)
	}
}

func TestSettingsUpdateMergesOnlySensitivity(t *testing.T) {
	repo := &stubSettingsRepository{rows: map[uint]models.Settings{
		3: {UserID: 3, ReminderInterval: 30, Sensitivity: 0.7, EnableReminders: false, EnableCamera: true},
	}}
	service := NewSettingsService(repo)

	updated, err := service.Update(3, models.SettingsUpdate{Sensitivity: ptr(0.5)})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Sensitivity != 0.5 {
		t.Fatalf("expected sensitivity 0.5, got %v", updated.Sensitivity)
	}
	if updated.ReminderInterval != 30 || updated.EnableReminders || !updated.EnableCamera {
		t.Fatalf("expected other fields unchanged, got %#v", updated)
	}
	if repo.rows[3].Sensitivity != 0.5 {
		t.Fatalf("expected stored sensitivity 0.5, got %v", repo.rows[3].Sensitivity)
	}
}

func TestSettingsUpdateRejectsOutOfRange(t *testing.T) {
	repo := &stubSettingsRepository{}
	service := NewSettingsService(repo)

	if _, err := service.Update(1, models.SettingsUpdate{Sensitivity: ptr(1.5)}); !errors.Is(err, ErrSettingsInvalid) {
		t.Fatalf("expected ErrSettingsInvalid, got %v", err)
	}
	if _, err := service.Update(1, models.SettingsUpdate{ReminderInterval: ptr(0)}); !errors.Is(err, ErrSettingsInvalid) {
		t.Fatalf("expected ErrSettingsInvalid, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no writes for invalid settings, got %d", repo.upserts)
	}
}
