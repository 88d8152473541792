package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/postura/internal/models"
)

var ErrProfileInvalid = errors.New("profile invalid")

// NormalizeProfile trims text fields and fills the default fitness goal.
func NormalizeProfile(profile models.Profile) models.Profile {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Gender = strings.ToLower(strings.TrimSpace(profile.Gender))
	profile.FitnessGoal = strings.ToLower(strings.TrimSpace(profile.FitnessGoal))
	if profile.FitnessGoal == "" {
		profile.FitnessGoal = models.GoalPostureCorrection
	}
	return profile
}

func ValidateProfile(profile models.Profile) error {
	switch {
	case profile.Name == "":
		return fmt.Errorf("%w: name is required", ErrProfileInvalid)
	case profile.Age != 0 && (profile.Age < 1 || profile.Age > 150):
		return fmt.Errorf("%w: age must be between 1 and 150", ErrProfileInvalid)
	case profile.Gender != "" && !models.IsValidGender(profile.Gender):
		return fmt.Errorf("%w: unknown gender %q", ErrProfileInvalid, profile.Gender)
	case profile.Height < 0 || profile.Weight < 0:
		return fmt.Errorf("%w: height and weight must not be negative", ErrProfileInvalid)
	case !models.IsValidFitnessGoal(profile.FitnessGoal):
		return fmt.Errorf("%w: unknown fitness goal %q", ErrProfileInvalid, profile.FitnessGoal)
	}
	return nil
}
