package db

import (
	"time"

	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/posture"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) Create(session *models.PostureSession) error {
	return repo.database.Create(session).Error
}

func (repo *SessionRepository) CountForUser(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.PostureSession{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *SessionRepository) ListPage(userID uint, offset int, limit int) ([]models.PostureSession, error) {
	sessions := make([]models.PostureSession, 0, limit)
	err := repo.database.
		Where("user_id = ?", userID).
		Order("start_time DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByRange returns sessions whose start time lies within [from, to].
func (repo *SessionRepository) ListByRange(userID uint, from time.Time, to time.Time) ([]models.PostureSession, error) {
	sessions := make([]models.PostureSession, 0)
	err := repo.database.
		Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, from, to).
		Order("start_time DESC, id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *SessionRepository) FindForUser(userID uint, sessionID string) (models.PostureSession, error) {
	var session models.PostureSession
	if err := repo.database.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		return models.PostureSession{}, err
	}
	return session, nil
}

func (repo *SessionRepository) DeleteForUser(userID uint, sessionID string) (int64, error) {
	result := repo.database.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.PostureSession{})
	return result.RowsAffected, result.Error
}

func (repo *SessionRepository) DeleteAllForUser(userID uint) (int64, error) {
	result := repo.database.Where("user_id = ?", userID).Delete(&models.PostureSession{})
	return result.RowsAffected, result.Error
}

type sessionTotals struct {
	Count     int      `gorm:"column:total_sessions"`
	TotalTime int      `gorm:"column:total_time"`
	TotalGood int      `gorm:"column:total_good"`
	MeanScore *float64 `gorm:"column:mean_score"`
	BestScore int      `gorm:"column:best_score"`
	Worst     int      `gorm:"column:worst_score"`
}

// AggregateForUser reduces stored sessions in a single SQL aggregate. A nil
// since covers every session.
func (repo *SessionRepository) AggregateForUser(userID uint, since *time.Time) (posture.Summary, error) {
	query := repo.database.Model(&models.PostureSession{}).
		Select(`COUNT(*) AS total_sessions,
COALESCE(SUM(total_time), 0) AS total_time,
COALESCE(SUM(good_posture_time), 0) AS total_good,
AVG(average_score) AS mean_score,
COALESCE(MAX(average_score), 0) AS best_score,
COALESCE(MIN(average_score), 0) AS worst_score`).
		Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("start_time >= ?", *since)
	}

	var totals sessionTotals
	if err := query.Scan(&totals).Error; err != nil {
		return posture.Summary{}, err
	}
	if totals.Count == 0 || totals.MeanScore == nil {
		return posture.Summary{}, nil
	}

	return posture.SummaryFromTotals(
		totals.Count,
		totals.TotalTime,
		totals.TotalGood,
		*totals.MeanScore,
		totals.BestScore,
		totals.Worst,
	), nil
}
