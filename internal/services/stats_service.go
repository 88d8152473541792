package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/postura/internal/posture"
)

type SessionAggregator interface {
	AggregateForUser(userID uint, since *time.Time) (posture.Summary, error)
}

type StatsService struct {
	sessions SessionAggregator
	now      func() time.Time
}

func NewStatsService(sessions SessionAggregator) *StatsService {
	return &StatsService{sessions: sessions, now: time.Now}
}

func (service *StatsService) Summary(userID uint) (posture.Summary, error) {
	summary, err := service.sessions.AggregateForUser(userID, nil)
	if err != nil {
		return posture.Summary{}, fmt.Errorf("aggregate sessions: %w", err)
	}
	return summary, nil
}

// Weekly covers sessions started within the last seven days.
func (service *StatsService) Weekly(userID uint) (posture.Summary, error) {
	since := service.now().UTC().Add(-posture.WeeklyWindow)
	summary, err := service.sessions.AggregateForUser(userID, &since)
	if err != nil {
		return posture.Summary{}, fmt.Errorf("aggregate weekly sessions: %w", err)
	}
	return summary, nil
}
