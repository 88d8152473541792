package api

import (
	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, secretKey []byte) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users, secretKey)
	handler.profileService = services.NewProfileService(handler.repositories.Users)
	handler.settingsService = services.NewSettingsService(handler.repositories.Settings)
	handler.sessionService = services.NewSessionService(handler.repositories.Sessions, handler.logger.Named("sessions"))
	handler.statsService = services.NewStatsService(handler.repositories.Sessions)
	return handler
}
