package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/postura/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	TouchLastActive(userID uint, at time.Time) error
}

type RegisterInput struct {
	Email    string
	Password string
	Profile  models.Profile
}

type AuthService struct {
	users     AuthUserRepository
	secretKey []byte
	now       func() time.Time
}

func NewAuthService(users AuthUserRepository, secretKey []byte) *AuthService {
	return &AuthService{users: users, secretKey: secretKey, now: time.Now}
}

func (service *AuthService) Register(input RegisterInput) (models.User, string, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, "", err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, "", err
	}

	profile := NormalizeProfile(input.Profile)
	if err := ValidateProfile(profile); err != nil {
		return models.User{}, "", err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, "", ErrEmailExists
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := service.now().UTC()
	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         profile.Name,
		Age:          profile.Age,
		Gender:       profile.Gender,
		Height:       profile.Height,
		Weight:       profile.Weight,
		FitnessGoal:  profile.FitnessGoal,
		CreatedAt:    now,
		LastActive:   &now,
	}
	if err := service.users.Create(&user); err != nil {
		// a concurrent registration won the unique email index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, "", ErrEmailExists
		}
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := service.IssueToken(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (service *AuthService) Login(emailRaw string, passwordRaw string) (models.User, string, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	now := service.now().UTC()
	if err := service.users.TouchLastActive(user.ID, now); err != nil {
		return models.User{}, "", fmt.Errorf("update last active: %w", err)
	}
	user.LastActive = &now

	token, err := service.IssueToken(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (service *AuthService) IssueToken(userID uint) (string, error) {
	token, err := BuildAuthToken(service.secretKey, userID, AuthTokenTTL, service.now())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its account.
func (service *AuthService) Authenticate(rawToken string) (models.User, error) {
	claims, err := ParseAuthToken(service.secretKey, rawToken, service.now())
	if err != nil {
		return models.User{}, err
	}
	user, err := service.users.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthTokenInvalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
