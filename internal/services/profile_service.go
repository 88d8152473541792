package services

import (
	"fmt"

	"github.com/terraincognita07/postura/internal/models"
)

type ProfileUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateProfile(userID uint, profile models.Profile) error
}

type ProfileService struct {
	users ProfileUserRepository
}

func NewProfileService(users ProfileUserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Update overwrites only the fields present in update.
func (service *ProfileService) Update(userID uint, update models.ProfileUpdate) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}

	profile := NormalizeProfile(update.Apply(user.Profile()))
	if err := ValidateProfile(profile); err != nil {
		return models.User{}, err
	}

	if err := service.users.UpdateProfile(userID, profile); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}

	user.Name = profile.Name
	user.Age = profile.Age
	user.Gender = profile.Gender
	user.Height = profile.Height
	user.Weight = profile.Weight
	user.FitnessGoal = profile.FitnessGoal
	return user, nil
}
