package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/postura/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultSessionPageSize = 50
	MaxSessionPageSize     = 200
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExists       = errors.New("session already exists")
	ErrSessionInvalid      = errors.New("session invalid")
	ErrSessionRangeInvalid = errors.New("session range invalid")
)

type SessionRepository interface {
	Create(session *models.PostureSession) error
	CountForUser(userID uint) (int64, error)
	ListPage(userID uint, offset int, limit int) ([]models.PostureSession, error)
	ListByRange(userID uint, from time.Time, to time.Time) ([]models.PostureSession, error)
	FindForUser(userID uint, sessionID string) (models.PostureSession, error)
	DeleteForUser(userID uint, sessionID string) (int64, error)
	DeleteAllForUser(userID uint) (int64, error)
}

// SessionInput is a finalized session as submitted by a tracking client.
// AverageScore is optional and derived from the samples when absent.
type SessionInput struct {
	ID              string                `json:"id"`
	StartTime       time.Time             `json:"startTime" validate:"required"`
	EndTime         *time.Time            `json:"endTime"`
	TotalTime       int                   `json:"totalTime" validate:"gte=0"`
	GoodPostureTime int                   `json:"goodPostureTime" validate:"gte=0"`
	AverageScore    *int                  `json:"averageScore" validate:"omitempty,gte=0,lte=100"`
	Issues          []models.PostureIssue `json:"issues" validate:"dive"`
	Scores          []models.ScoreSample  `json:"scores" validate:"dive"`
}

type SessionPage struct {
	Sessions []models.PostureSession `json:"sessions"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	Limit    int                     `json:"limit"`
	Pages    int                     `json:"pages"`
}

type SessionService struct {
	sessions SessionRepository
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewSessionService(sessions SessionRepository, logger *zap.SugaredLogger) *SessionService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SessionService{sessions: sessions, logger: logger, now: time.Now}
}

func (service *SessionService) Create(userID uint, input SessionInput, device models.DeviceInfo) (models.PostureSession, error) {
	if err := ValidateSessionInput(input); err != nil {
		return models.PostureSession{}, err
	}

	sessionID := strings.TrimSpace(input.ID)
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
	} else if _, err := service.sessions.FindForUser(userID, sessionID); err == nil {
		return models.PostureSession{}, ErrSessionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PostureSession{}, fmt.Errorf("check session: %w", err)
	}

	// a reported average is only trusted when there are no samples to derive it from
	averageScore := models.DeriveAverageScore(input.Scores, input.GoodPostureTime, input.TotalTime)
	if input.AverageScore != nil && len(input.Scores) == 0 {
		averageScore = *input.AverageScore
	}

	session := models.PostureSession{
		ID:              sessionID,
		UserID:          userID,
		StartTime:       input.StartTime.UTC(),
		TotalTime:       input.TotalTime,
		GoodPostureTime: input.GoodPostureTime,
		AverageScore:    averageScore,
		Issues:          nonNilIssues(input.Issues),
		Scores:          nonNilScores(input.Scores),
		Device:          device,
		CreatedAt:       service.now().UTC(),
	}
	if input.EndTime != nil {
		end := input.EndTime.UTC()
		session.EndTime = &end
	}

	err := service.sessions.Create(&session)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if _, findErr := service.sessions.FindForUser(userID, session.ID); findErr == nil {
			return models.PostureSession{}, ErrSessionExists
		}
		// the id is taken by another account; store this upload under a fresh one
		service.logger.Warnw("session id collision, assigning new id", "user_id", userID, "client_id", session.ID)
		session.ID = uuid.NewString()
		err = service.sessions.Create(&session)
	}
	if err != nil {
		return models.PostureSession{}, fmt.Errorf("create session: %w", err)
	}

	service.logger.Infow("posture session stored",
		"user_id", userID,
		"session_id", session.ID,
		"total_time", session.TotalTime,
		"average_score", session.AverageScore,
	)
	return session, nil
}

func ValidateSessionInput(input SessionInput) error {
	switch {
	case input.StartTime.IsZero():
		return fmt.Errorf("%w: start time is required", ErrSessionInvalid)
	case input.TotalTime < 0 || input.GoodPostureTime < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrSessionInvalid)
	case input.GoodPostureTime > input.TotalTime:
		return fmt.Errorf("%w: good posture time exceeds total time", ErrSessionInvalid)
	case input.AverageScore != nil && (*input.AverageScore < 0 || *input.AverageScore > 100):
		return fmt.Errorf("%w: average score must be between 0 and 100", ErrSessionInvalid)
	case input.EndTime != nil && input.EndTime.Before(input.StartTime):
		return fmt.Errorf("%w: end time precedes start time", ErrSessionInvalid)
	}

	for _, issue := range input.Issues {
		if !models.IsValidIssueType(issue.Type) || !models.IsValidSeverity(issue.Severity) {
			return fmt.Errorf("%w: unknown issue %q/%q", ErrSessionInvalid, issue.Type, issue.Severity)
		}
	}
	for _, sample := range input.Scores {
		if sample.Score < 0 || sample.Score > 100 {
			return fmt.Errorf("%w: score sample out of range", ErrSessionInvalid)
		}
	}
	return nil
}

func (service *SessionService) List(userID uint, page int, limit int) (SessionPage, error) {
	page, limit = NormalizePagination(page, limit)

	total, err := service.sessions.CountForUser(userID)
	if err != nil {
		return SessionPage{}, fmt.Errorf("count sessions: %w", err)
	}
	sessions, err := service.sessions.ListPage(userID, (page-1)*limit, limit)
	if err != nil {
		return SessionPage{}, fmt.Errorf("list sessions: %w", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return SessionPage{
		Sessions: sessions,
		Total:    total,
		Page:     page,
		Limit:    limit,
		Pages:    pages,
	}, nil
}

func NormalizePagination(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultSessionPageSize
	}
	if limit > MaxSessionPageSize {
		limit = MaxSessionPageSize
	}
	return page, limit
}

// ListRange returns sessions that started within the inclusive [from, to] range.
func (service *SessionService) ListRange(userID uint, from time.Time, to time.Time) ([]models.PostureSession, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, ErrSessionRangeInvalid
	}
	sessions, err := service.sessions.ListByRange(userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list sessions by range: %w", err)
	}
	return sessions, nil
}

func (service *SessionService) Get(userID uint, sessionID string) (models.PostureSession, error) {
	session, err := service.sessions.FindForUser(userID, strings.TrimSpace(sessionID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PostureSession{}, ErrSessionNotFound
	}
	if err != nil {
		return models.PostureSession{}, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (service *SessionService) Delete(userID uint, sessionID string) error {
	deleted, err := service.sessions.DeleteForUser(userID, strings.TrimSpace(sessionID))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (service *SessionService) DeleteAll(userID uint) (int64, error) {
	deleted, err := service.sessions.DeleteAllForUser(userID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	service.logger.Infow("posture data wiped", "user_id", userID, "sessions", deleted)
	return deleted, nil
}

func nonNilIssues(issues []models.PostureIssue) []models.PostureIssue {
	if issues == nil {
		return []models.PostureIssue{}
	}
	return issues
}

func nonNilScores(scores []models.ScoreSample) []models.ScoreSample {
	if scores == nil {
		return []models.ScoreSample{}
	}
	return scores
}
