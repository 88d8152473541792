package posture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/terraincognita07/postura/internal/models"
	"go.uber.org/zap"
)

var ErrRunnerStarted = errors.New("posture runner already started")

type RunnerConfig struct {
	Reminders        bool
	ReminderInterval time.Duration
	Clock            func() time.Time
}

// Runner drives a Tracker from a Detector on a fixed period. Ticks are
// handled one at a time in the order they fire.
type Runner struct {
	tracker  *Tracker
	detector Detector
	logger   *zap.SugaredLogger
	config   RunnerConfig

	OnTick     func(session models.PostureSession, sample Sample)
	OnReminder func(sample Sample)

	// ticks overrides the ticker channel in tests.
	ticks <-chan time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(tracker *Tracker, detector Detector, logger *zap.SugaredLogger, config RunnerConfig) *Runner {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		tracker:  tracker,
		detector: detector,
		logger:   logger,
		config:   config,
	}
}

// Start opens a session and begins sampling until ctx is cancelled or Stop
// is called.
func (runner *Runner) Start(ctx context.Context) (models.PostureSession, error) {
	runner.mu.Lock()
	defer runner.mu.Unlock()

	if runner.done != nil {
		return models.PostureSession{}, ErrRunnerStarted
	}

	session, err := runner.tracker.Start(runner.config.Clock())
	if err != nil {
		return models.PostureSession{}, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	runner.cancel = cancel
	runner.done = make(chan struct{})

	ticks := runner.ticks
	var ticker *time.Ticker
	if ticks == nil {
		ticker = time.NewTicker(runner.tracker.Interval())
		ticks = ticker.C
	}

	go func(done chan struct{}) {
		defer close(done)
		if ticker != nil {
			defer ticker.Stop()
		}
		runner.loop(loopCtx, ticks, session.StartTime)
	}(runner.done)

	runner.logger.Infow("posture tracking started", "session_id", session.ID, "interval", runner.tracker.Interval().String())
	return session, nil
}

// Done is closed when the sampling loop exits.
func (runner *Runner) Done() <-chan struct{} {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return runner.done
}

// Stop cancels sampling, waits for an in-flight tick and finalizes the
// session. It reports false when nothing was running.
func (runner *Runner) Stop() (models.PostureSession, bool) {
	runner.mu.Lock()
	cancel := runner.cancel
	done := runner.done
	runner.cancel = nil
	runner.done = nil
	runner.mu.Unlock()

	if cancel == nil {
		return models.PostureSession{}, false
	}
	cancel()
	<-done

	session, ok := runner.tracker.Stop(runner.config.Clock())
	if ok {
		runner.logger.Infow("posture tracking stopped",
			"session_id", session.ID,
			"total_time", session.TotalTime,
			"good_posture_time", session.GoodPostureTime,
			"average_score", session.AverageScore,
		)
	}
	return session, ok
}

func (runner *Runner) loop(ctx context.Context, ticks <-chan time.Time, startedAt time.Time) {
	lastReminder := startedAt
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			sample, err := runner.detector.Detect(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				runner.logger.Warnw("posture detection failed", "error", err)
				continue
			}

			now := runner.config.Clock()
			session, ok := runner.tracker.Tick(sample, now)
			if !ok {
				return
			}
			if runner.OnTick != nil {
				runner.OnTick(session, sample)
			}
			if runner.shouldRemind(sample, now, lastReminder) {
				lastReminder = now
				if runner.OnReminder != nil {
					runner.OnReminder(sample)
				}
			}
		}
	}
}

func (runner *Runner) shouldRemind(sample Sample, now time.Time, lastReminder time.Time) bool {
	if !runner.config.Reminders || runner.config.ReminderInterval <= 0 || sample.IsGood {
		return false
	}
	return now.Sub(lastReminder) >= runner.config.ReminderInterval
}
