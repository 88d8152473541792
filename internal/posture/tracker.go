package posture

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/postura/internal/models"
)

const DefaultTickInterval = 2 * time.Second

var ErrSessionActive = errors.New("posture session already active")

// Tracker accumulates one active session at a time. Finalized sessions are
// kept in an in-memory history owned by the tracker.
type Tracker struct {
	mu       sync.Mutex
	interval time.Duration
	newID    func() string

	current  *models.PostureSession
	scoreSum int
	// good posture is accumulated at full resolution and exposed in whole seconds
	goodTime time.Duration
	history  []models.PostureSession
}

func NewTracker(interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Tracker{
		interval: interval,
		newID:    uuid.NewString,
		history:  []models.PostureSession{},
	}
}

func (tracker *Tracker) Interval() time.Duration {
	return tracker.interval
}

func (tracker *Tracker) Start(now time.Time) (models.PostureSession, error) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if tracker.current != nil {
		return models.PostureSession{}, ErrSessionActive
	}

	tracker.current = &models.PostureSession{
		ID:        tracker.newID(),
		StartTime: now,
		Issues:    []models.PostureIssue{},
		Scores:    []models.ScoreSample{},
		CreatedAt: now,
	}
	tracker.scoreSum = 0
	tracker.goodTime = 0
	return cloneSession(*tracker.current), nil
}

// Tick folds one sample into the active session. It reports false when no
// session is active.
func (tracker *Tracker) Tick(sample Sample, now time.Time) (models.PostureSession, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	session := tracker.current
	if session == nil {
		return models.PostureSession{}, false
	}

	if elapsed := elapsedSeconds(session.StartTime, now); elapsed > session.TotalTime {
		session.TotalTime = elapsed
	}
	if sample.IsGood {
		tracker.goodTime += tracker.interval
	}
	session.GoodPostureTime = int(tracker.goodTime / time.Second)
	// ticks can land faster than the nominal interval
	if session.GoodPostureTime > session.TotalTime {
		session.GoodPostureTime = session.TotalTime
	}

	for _, issue := range sample.Issues {
		if issue.Timestamp.IsZero() {
			issue.Timestamp = now
		}
		session.Issues = append(session.Issues, issue)
	}

	score := models.ClampScore(sample.Score)
	session.Scores = append(session.Scores, models.ScoreSample{Score: score, Timestamp: now})
	tracker.scoreSum += score
	session.AverageScore = models.ClampScore(int(math.Round(float64(tracker.scoreSum) / float64(len(session.Scores)))))

	return cloneSession(*session), true
}

func (tracker *Tracker) Stop(now time.Time) (models.PostureSession, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	session := tracker.current
	if session == nil {
		return models.PostureSession{}, false
	}

	if elapsed := elapsedSeconds(session.StartTime, now); elapsed > session.TotalTime {
		session.TotalTime = elapsed
	}
	endTime := now
	session.EndTime = &endTime
	session.AverageScore = models.DeriveAverageScore(session.Scores, session.GoodPostureTime, session.TotalTime)

	finished := cloneSession(*session)
	tracker.history = append(tracker.history, cloneSession(finished))
	tracker.current = nil
	tracker.scoreSum = 0
	tracker.goodTime = 0
	return finished, true
}

func (tracker *Tracker) Current() (models.PostureSession, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if tracker.current == nil {
		return models.PostureSession{}, false
	}
	return cloneSession(*tracker.current), true
}

func (tracker *Tracker) Active() bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.current != nil
}

func (tracker *Tracker) History() []models.PostureSession {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	result := make([]models.PostureSession, 0, len(tracker.history))
	for _, session := range tracker.history {
		result = append(result, cloneSession(session))
	}
	return result
}

func (tracker *Tracker) ClearHistory() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.history = []models.PostureSession{}
}

func elapsedSeconds(start time.Time, now time.Time) int {
	elapsed := int(now.Sub(start) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func cloneSession(session models.PostureSession) models.PostureSession {
	clone := session
	clone.Issues = append([]models.PostureIssue{}, session.Issues...)
	clone.Scores = append([]models.ScoreSample{}, session.Scores...)
	if session.EndTime != nil {
		endTime := *session.EndTime
		clone.EndTime = &endTime
	}
	return clone
}
