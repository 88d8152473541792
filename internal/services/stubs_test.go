package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/posture"
	"gorm.io/gorm"
)

type stubUserRepository struct {
	users      map[uint]models.User
	nextID     uint
	createErr  error
	touchedIDs []uint
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{users: map[uint]models.User{}, nextID: 1}
}

func (stub *stubUserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubUserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubUserRepository) FindByID(userID uint) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *stubUserRepository) Create(user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	user.ID = stub.nextID
	stub.nextID++
	stub.users[user.ID] = *user
	return nil
}

func (stub *stubUserRepository) TouchLastActive(userID uint, at time.Time) error {
	user := stub.users[userID]
	user.LastActive = &at
	stub.users[userID] = user
	stub.touchedIDs = append(stub.touchedIDs, userID)
	return nil
}

func (stub *stubUserRepository) UpdateProfile(userID uint, profile models.Profile) error {
	user, ok := stub.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Name = profile.Name
	user.Age = profile.Age
	user.Gender = profile.Gender
	user.Height = profile.Height
	user.Weight = profile.Weight
	user.FitnessGoal = profile.FitnessGoal
	stub.users[userID] = user
	return nil
}

type stubSettingsRepository struct {
	rows    map[uint]models.Settings
	upserts int
}

func (stub *stubSettingsRepository) Find(userID uint) (models.Settings, bool, error) {
	settings, ok := stub.rows[userID]
	return settings, ok, nil
}

func (stub *stubSettingsRepository) Upsert(settings *models.Settings) error {
	if stub.rows == nil {
		stub.rows = map[uint]models.Settings{}
	}
	stub.rows[settings.UserID] = *settings
	stub.upserts++
	return nil
}

type stubSessionRepository struct {
	sessions []models.PostureSession
	since    *time.Time
}

func (stub *stubSessionRepository) Create(session *models.PostureSession) error {
	for _, existing := range stub.sessions {
		if existing.ID == session.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	stub.sessions = append(stub.sessions, *session)
	return nil
}

func (stub *stubSessionRepository) owned(userID uint) []models.PostureSession {
	result := make([]models.PostureSession, 0)
	for _, session := range stub.sessions {
		if session.UserID == userID {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result
}

func (stub *stubSessionRepository) CountForUser(userID uint) (int64, error) {
	return int64(len(stub.owned(userID))), nil
}

func (stub *stubSessionRepository) ListPage(userID uint, offset int, limit int) ([]models.PostureSession, error) {
	owned := stub.owned(userID)
	if offset >= len(owned) {
		return []models.PostureSession{}, nil
	}
	end := min(offset+limit, len(owned))
	return owned[offset:end], nil
}

func (stub *stubSessionRepository) ListByRange(userID uint, from time.Time, to time.Time) ([]models.PostureSession, error) {
	result := make([]models.PostureSession, 0)
	for _, session := range stub.owned(userID) {
		if !session.StartTime.Before(from) && !session.StartTime.After(to) {
			result = append(result, session)
		}
	}
	return result, nil
}

func (stub *stubSessionRepository) FindForUser(userID uint, sessionID string) (models.PostureSession, error) {
	for _, session := range stub.sessions {
		if session.UserID == userID && session.ID == sessionID {
			return session, nil
		}
	}
	return models.PostureSession{}, gorm.ErrRecordNotFound
}

func (stub *stubSessionRepository) DeleteForUser(userID uint, sessionID string) (int64, error) {
	for index, session := range stub.sessions {
		if session.UserID == userID && session.ID == sessionID {
			stub.sessions = append(stub.sessions[:index], stub.sessions[index+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (stub *stubSessionRepository) DeleteAllForUser(userID uint) (int64, error) {
	kept := stub.sessions[:0]
	var deleted int64
	for _, session := range stub.sessions {
		if session.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, session)
	}
	stub.sessions = kept
	return deleted, nil
}

func (stub *stubSessionRepository) AggregateForUser(userID uint, since *time.Time) (posture.Summary, error) {
	stub.since = since
	if since == nil {
		return posture.Aggregate(stub.owned(userID)), nil
	}
	return posture.AggregateSince(stub.owned(userID), *since), nil
}
