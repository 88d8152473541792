package posture

import (
	"fmt"
	"math"
	"time"

	"github.com/terraincognita07/postura/internal/models"
)

const WeeklyWindow = 7 * 24 * time.Hour

type Summary struct {
	TotalSessions        int `json:"totalSessions"`
	TotalTime            int `json:"totalTime"`
	TotalGoodPostureTime int `json:"totalGoodPostureTime"`
	AverageScore         int `json:"averageScore"`
	BestScore            int `json:"bestScore"`
	WorstScore           int `json:"worstScore"`
	PosturePercentage    int `json:"posturePercentage"`
}

// Aggregate reduces finalized sessions at session-average granularity.
func Aggregate(sessions []models.PostureSession) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}

	totalTime := 0
	totalGood := 0
	scoreSum := 0
	best := sessions[0].AverageScore
	worst := sessions[0].AverageScore
	for _, session := range sessions {
		totalTime += session.TotalTime
		totalGood += session.GoodPostureTime
		scoreSum += session.AverageScore
		best = max(best, session.AverageScore)
		worst = min(worst, session.AverageScore)
	}

	return SummaryFromTotals(len(sessions), totalTime, totalGood, float64(scoreSum)/float64(len(sessions)), best, worst)
}

func AggregateSince(sessions []models.PostureSession, since time.Time) Summary {
	filtered := make([]models.PostureSession, 0, len(sessions))
	for _, session := range sessions {
		if !session.StartTime.Before(since) {
			filtered = append(filtered, session)
		}
	}
	return Aggregate(filtered)
}

func Weekly(sessions []models.PostureSession, now time.Time) Summary {
	return AggregateSince(sessions, now.Add(-WeeklyWindow))
}

// SummaryFromTotals applies the shared rounding to pre-reduced totals, so a
// database aggregate and Aggregate agree.
func SummaryFromTotals(count int, totalTime int, totalGood int, meanScore float64, best int, worst int) Summary {
	if count <= 0 {
		return Summary{}
	}

	percentage := 0
	if totalTime > 0 {
		percentage = int(math.Round(float64(totalGood) / float64(totalTime) * 100))
	}

	return Summary{
		TotalSessions:        count,
		TotalTime:            totalTime,
		TotalGoodPostureTime: totalGood,
		AverageScore:         int(math.Round(meanScore)),
		BestScore:            best,
		WorstScore:           worst,
		PosturePercentage:    percentage,
	}
}

func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
