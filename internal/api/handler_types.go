package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/i18n"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type Handler struct {
	db           *gorm.DB
	location     *time.Location
	i18n         *i18n.Manager
	logger       *zap.SugaredLogger
	validate     *validator.Validate
	loginLimiter *attemptLimiter
	authLimiter  *rateLimiter
	now          func() time.Time

	repositories    *db.Repositories
	authService     *services.AuthService
	profileService  *services.ProfileService
	settingsService *services.SettingsService
	sessionService  *services.SessionService
	statsService    *services.StatsService
}

type registerInput struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	Name        string  `json:"name" validate:"required,max=120"`
	Age         int     `json:"age" validate:"omitempty,gte=1,lte=150"`
	Gender      string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Height      float64 `json:"height" validate:"gte=0"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	FitnessGoal string  `json:"fitnessGoal" validate:"omitempty,oneof=strength flexibility posture_correction endurance"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID          uint            `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Age         int             `json:"age,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	Height      float64         `json:"height,omitempty"`
	Weight      float64         `json:"weight,omitempty"`
	FitnessGoal string          `json:"fitnessGoal"`
	Settings    models.Settings `json:"settings"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastActive  *time.Time      `json:"lastActive,omitempty"`
}

type paginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewHandler(database *gorm.DB, secret string, location *time.Location, i18nManager *i18n.Manager, logger *zap.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := &Handler{
		db:           database,
		location:     location,
		i18n:         i18nManager,
		logger:       logger.Named("api").Sugar(),
		validate:     newValidator(),
		loginLimiter: newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
		now:          time.Now,
	}
	return handler.withDependencies(database, []byte(secret)), nil
}

// WithAuthRateLimit throttles /api/auth requests per client IP. A
// non-positive rate disables the limiter.
func (handler *Handler) WithAuthRateLimit(perSecond float64, burst int) *Handler {
	handler.authLimiter = newRateLimiter(perSecond, burst)
	return handler
}
