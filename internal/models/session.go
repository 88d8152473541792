package models

import (
	"math"
	"time"
)

const (
	IssueForwardHead      = "forward_head"
	IssueRoundedShoulders = "rounded_shoulders"
	IssueLeaning          = "leaning"
	IssueSlouching        = "slouching"
)

const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

type PostureIssue struct {
	Type      string    `json:"type" validate:"required,oneof=forward_head rounded_shoulders leaning slouching"`
	Severity  string    `json:"severity" validate:"required,oneof=mild moderate severe"`
	Message   string    `json:"message" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

type ScoreSample struct {
	Score     int       `json:"score" validate:"gte=0,lte=100"`
	Timestamp time.Time `json:"timestamp"`
}

type DeviceInfo struct {
	UserAgent string `json:"userAgent,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

type PostureSession struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"-"`
	StartTime       time.Time      `gorm:"not null;index" json:"startTime"`
	EndTime         *time.Time     `json:"endTime,omitempty"`
	TotalTime       int            `gorm:"not null;default:0" json:"totalTime"`
	GoodPostureTime int            `gorm:"not null;default:0" json:"goodPostureTime"`
	AverageScore    int            `gorm:"not null;default:0" json:"averageScore"`
	Issues          []PostureIssue `gorm:"serializer:json" json:"issues"`
	Scores          []ScoreSample  `gorm:"serializer:json" json:"scores"`
	Device          DeviceInfo     `gorm:"embedded;embeddedPrefix:device_" json:"deviceInfo"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func IsValidIssueType(value string) bool {
	switch value {
	case IssueForwardHead, IssueRoundedShoulders, IssueLeaning, IssueSlouching:
		return true
	default:
		return false
	}
}

func IsValidSeverity(value string) bool {
	switch value {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	default:
		return false
	}
}

// DeriveAverageScore is the single rule for a session's average score: the
// rounded mean of recorded samples, falling back to the good-posture ratio
// when no samples exist.
func DeriveAverageScore(scores []ScoreSample, goodPostureTime int, totalTime int) int {
	if len(scores) > 0 {
		sum := 0
		for _, sample := range scores {
			sum += sample.Score
		}
		return ClampScore(int(math.Round(float64(sum) / float64(len(scores)))))
	}
	if totalTime <= 0 {
		return 0
	}
	return ClampScore(int(math.Round(float64(goodPostureTime) / float64(totalTime) * 100)))
}

func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (PostureSession) TableName() string {
	return "posture_sessions"
}
