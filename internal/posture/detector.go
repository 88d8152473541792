package posture

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/terraincognita07/postura/internal/models"
)

const (
	GoodScoreThreshold = 70
	FairScoreThreshold = 50
	severeScoreCeiling = 30
)

// Sample is one posture reading produced by a Detector.
type Sample struct {
	IsGood     bool                  `json:"isGood"`
	Score      int                   `json:"score"`
	Confidence float64               `json:"confidence"`
	Timestamp  time.Time             `json:"timestamp"`
	Issues     []models.PostureIssue `json:"issues"`
}

// Detector produces posture samples. A camera-backed implementation can
// replace MockDetector without touching Tracker or the aggregator.
type Detector interface {
	Detect(ctx context.Context) (Sample, error)
}

// MessageFunc resolves the human readable message for an issue type.
type MessageFunc func(issueType string) string

var defaultIssueMessages = map[string]string{
	models.IssueForwardHead:      "Head is tilted forward",
	models.IssueRoundedShoulders: "Shoulders are rounded",
	models.IssueSlouching:        "Slouching detected",
	models.IssueLeaning:          "Leaning to one side",
}

func DefaultIssueMessage(issueType string) string {
	if message, ok := defaultIssueMessages[issueType]; ok {
		return message
	}
	return "Posture issue detected"
}

var issueTypes = []string{
	models.IssueForwardHead,
	models.IssueRoundedShoulders,
	models.IssueSlouching,
	models.IssueLeaning,
}

// MockDetector generates random but plausible readings.
type MockDetector struct {
	mu          sync.Mutex
	random      *rand.Rand
	sensitivity float64
	messages    MessageFunc
	now         func() time.Time
}

func NewMockDetector(seed uint64, sensitivity float64, messages MessageFunc) *MockDetector {
	if messages == nil {
		messages = DefaultIssueMessage
	}
	return &MockDetector{
		random:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		sensitivity: ClampSensitivity(sensitivity),
		messages:    messages,
		now:         time.Now,
	}
}

func (detector *MockDetector) SetSensitivity(sensitivity float64) {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	detector.sensitivity = ClampSensitivity(sensitivity)
}

func (detector *MockDetector) Sensitivity() float64 {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	return detector.sensitivity
}

func (detector *MockDetector) Detect(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()

	now := detector.now()
	score := detector.mockScore()
	threshold := GoodThreshold(detector.sensitivity)

	return Sample{
		IsGood:     score >= threshold,
		Score:      score,
		Confidence: 0.7 + detector.random.Float64()*0.3,
		Timestamp:  now,
		Issues:     detector.detectIssues(score, threshold, now),
	}, nil
}

func (detector *MockDetector) mockScore() int {
	base := 60 + detector.random.Float64()*40
	variation := (detector.random.Float64() - 0.5) * 20
	return models.ClampScore(int(math.Round(base + variation)))
}

func (detector *MockDetector) detectIssues(score int, threshold int, now time.Time) []models.PostureIssue {
	if score >= threshold {
		return []models.PostureIssue{}
	}

	count := 1
	if score < FairScoreThreshold {
		count = 2
	}

	issues := make([]models.PostureIssue, 0, count)
	for index := 0; index < count; index++ {
		issueType := issueTypes[detector.random.IntN(len(issueTypes))]
		issues = append(issues, models.PostureIssue{
			Type:      issueType,
			Severity:  SeverityForScore(score),
			Message:   detector.messages(issueType),
			Timestamp: now,
		})
	}
	return issues
}

func SeverityForScore(score int) string {
	switch {
	case score >= FairScoreThreshold:
		return models.SeverityMild
	case score >= severeScoreCeiling:
		return models.SeverityModerate
	default:
		return models.SeveritySevere
	}
}

// GoodThreshold shifts the good-posture cutoff with sensitivity; 0.7 maps to 70.
func GoodThreshold(sensitivity float64) int {
	threshold := int(math.Round(GoodScoreThreshold + (ClampSensitivity(sensitivity)-models.DefaultSensitivity)*20))
	if threshold < 60 {
		return 60
	}
	if threshold > 80 {
		return 80
	}
	return threshold
}

func ClampSensitivity(sensitivity float64) float64 {
	return math.Max(models.MinSensitivity, math.Min(models.MaxSensitivity, sensitivity))
}
