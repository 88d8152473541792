package models

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

const (
	GoalStrength          = "strength"
	GoalFlexibility       = "flexibility"
	GoalPostureCorrection = "posture_correction"
	GoalEndurance         = "endurance"
)

// User is an account together with its profile fields. Profile data lives on
// the account row; there is exactly one profile per account.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Age          int        `json:"age,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Height       float64    `json:"height,omitempty"`
	Weight       float64    `json:"weight,omitempty"`
	FitnessGoal  string     `gorm:"not null;default:posture_correction" json:"fitnessGoal"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	LastActive   *time.Time `json:"lastActive,omitempty"`
}

// Profile is the onboarding profile as kept by the local client store.
type Profile struct {
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Height      float64   `json:"height"`
	Weight      float64   `json:"weight"`
	FitnessGoal string    `json:"fitnessGoal"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (user *User) Profile() Profile {
	return Profile{
		Name:        user.Name,
		Age:         user.Age,
		Gender:      user.Gender,
		Height:      user.Height,
		Weight:      user.Weight,
		FitnessGoal: user.FitnessGoal,
		CreatedAt:   user.CreatedAt,
	}
}

func IsValidGender(value string) bool {
	switch value {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

func IsValidFitnessGoal(value string) bool {
	switch value {
	case GoalStrength, GoalFlexibility, GoalPostureCorrection, GoalEndurance:
		return true
	default:
		return false
	}
}

// ProfileUpdate carries a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,max=120"`
	Age         *int     `json:"age" validate:"omitempty,gte=1,lte=150"`
	Gender      *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Height      *float64 `json:"height" validate:"omitempty,gte=0"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	FitnessGoal *string  `json:"fitnessGoal" validate:"omitempty,oneof=strength flexibility posture_correction endurance"`
}

func (update ProfileUpdate) Apply(profile Profile) Profile {
	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Age != nil {
		profile.Age = *update.Age
	}
	if update.Gender != nil {
		profile.Gender = *update.Gender
	}
	if update.Height != nil {
		profile.Height = *update.Height
	}
	if update.Weight != nil {
		profile.Weight = *update.Weight
	}
	if update.FitnessGoal != nil {
		profile.FitnessGoal = *update.FitnessGoal
	}
	return profile
}
