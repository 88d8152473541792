package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Settings *SettingsRepository
	Sessions *SessionRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Settings: NewSettingsRepository(database),
		Sessions: NewSessionRepository(database),
	}
}
