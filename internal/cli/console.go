package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/postura/internal/client"
	"github.com/terraincognita07/postura/internal/i18n"
	"github.com/terraincognita07/postura/internal/localstore"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/posture"
	"github.com/terraincognita07/postura/internal/services"
	"go.uber.org/zap"
)

// Console implements the posturectl commands on top of the local store.
type Console struct {
	store    *localstore.Store
	i18n     *i18n.Manager
	language string
	out      io.Writer
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewConsole(store *localstore.Store, manager *i18n.Manager, language string, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		store:    store,
		i18n:     manager,
		language: manager.NormalizeLanguage(language),
		out:      out,
		logger:   logger.Named("cli").Sugar(),
		now:      time.Now,
	}
}

type TrackOptions struct {
	// Duration bounds the session; zero tracks until ctx is cancelled.
	Duration time.Duration
	Interval time.Duration
	Seed     uint64
}

// Track runs one tracking session with the mock detector and stores the
// result locally. A storage failure is reported but does not lose the
// returned session.
func (console *Console) Track(ctx context.Context, options TrackOptions) (models.PostureSession, error) {
	settings, _, err := console.store.GetSettings()
	if err != nil {
		console.logger.Warnw("load local settings failed, using defaults", "error", err)
		settings = models.DefaultSettings()
	}

	seed := options.Seed
	if seed == 0 {
		seed = uint64(console.now().UnixNano())
	}
	detector := posture.NewMockDetector(seed, settings.Sensitivity, func(issueType string) string {
		return console.i18n.IssueMessage(console.language, issueType)
	})
	runner := posture.NewRunner(posture.NewTracker(options.Interval), detector, console.logger, posture.RunnerConfig{
		Reminders:        settings.EnableReminders,
		ReminderInterval: time.Duration(settings.ReminderInterval) * time.Minute,
	})
	runner.OnTick = func(session models.PostureSession, sample posture.Sample) {
		state := console.translate("cli.bad")
		if sample.IsGood {
			state = console.translate("cli.good")
		}
		fmt.Fprintf(console.out, "[%s] %3d  %s\n", posture.FormatDuration(session.TotalTime), sample.Score, state)
	}
	runner.OnReminder = func(posture.Sample) {
		fmt.Fprintf(console.out, "! %s\n", console.translate("cli.reminder"))
	}

	if options.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Duration)
		defer cancel()
	}

	fmt.Fprintln(console.out, console.translate("cli.tracking_started"))
	if _, err := runner.Start(ctx); err != nil {
		return models.PostureSession{}, err
	}
	<-ctx.Done()

	session, ok := runner.Stop()
	if !ok {
		return models.PostureSession{}, errors.New("tracking session was not active")
	}

	fmt.Fprintln(console.out, console.translate("cli.tracking_stopped"))
	console.printSummary(posture.Aggregate([]models.PostureSession{session}))

	if err := console.store.SaveSession(session); err != nil {
		console.logger.Warnw("save session locally failed", "session_id", session.ID, "error", err)
		fmt.Fprintln(console.out, console.translate("cli.storage_warning"))
	}
	return session, nil
}

func (console *Console) History() error {
	sessions, err := console.store.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(console.out, console.translate("cli.no_sessions"))
		return nil
	}

	unsynced, err := console.store.ListUnsynced()
	if err != nil {
		return fmt.Errorf("list unsynced sessions: %w", err)
	}
	pending := make(map[string]struct{}, len(unsynced))
	for _, session := range unsynced {
		pending[session.ID] = struct{}{}
	}

	for _, session := range sessions {
		mark := "synced"
		if _, ok := pending[session.ID]; ok {
			mark = "local"
		}
		fmt.Fprintf(console.out, "%s  %s  %8s  %3d  %s\n",
			session.ID,
			session.StartTime.Local().Format("2006-01-02 15:04"),
			posture.FormatDuration(session.TotalTime),
			session.AverageScore,
			mark,
		)
	}
	return nil
}

func (console *Console) Stats(weekly bool) (posture.Summary, error) {
	sessions, err := console.store.ListSessions()
	if err != nil {
		return posture.Summary{}, fmt.Errorf("list sessions: %w", err)
	}

	summary := posture.Aggregate(sessions)
	if weekly {
		summary = posture.Weekly(sessions, console.now())
	}
	console.printSummary(summary)
	return summary, nil
}

func (console *Console) printSummary(summary posture.Summary) {
	fmt.Fprintf(console.out, "sessions:      %d\n", summary.TotalSessions)
	fmt.Fprintf(console.out, "total time:    %s\n", posture.FormatDuration(summary.TotalTime))
	fmt.Fprintf(console.out, "good posture:  %s (%d%%)\n", posture.FormatDuration(summary.TotalGoodPostureTime), summary.PosturePercentage)
	fmt.Fprintf(console.out, "average score: %d\n", summary.AverageScore)
	if summary.TotalSessions > 0 {
		fmt.Fprintf(console.out, "best / worst:  %d / %d\n", summary.BestScore, summary.WorstScore)
	}
}

func (console *Console) ShowProfile() error {
	profile, found, err := console.store.GetProfile()
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if !found {
		fmt.Fprintln(console.out, "no profile saved")
		return nil
	}
	return console.printJSON(profile)
}

// SetProfile merges update into the saved profile, creating it on first use.
func (console *Console) SetProfile(update models.ProfileUpdate) (models.Profile, error) {
	profile, found, err := console.store.GetProfile()
	if err != nil {
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		profile.CreatedAt = console.now().UTC()
	}

	profile = services.NormalizeProfile(update.Apply(profile))
	if err := services.ValidateProfile(profile); err != nil {
		return models.Profile{}, err
	}
	if err := console.store.SaveProfile(profile); err != nil {
		return models.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return profile, console.printJSON(profile)
}

func (console *Console) ShowSettings() error {
	settings, _, err := console.store.GetSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return console.printJSON(settings)
}

func (console *Console) SetSettings(update models.SettingsUpdate) (models.Settings, error) {
	settings, _, err := console.store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	settings = update.Apply(settings)
	if err := services.ValidateSettings(settings); err != nil {
		return models.Settings{}, err
	}
	if err := console.store.SaveSettings(settings); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, console.printJSON(settings)
}

func (console *Console) Delete(id string) error {
	if err := console.store.DeleteSession(id); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return fmt.Errorf("%s (%s): %w", console.translate("error.session_not_found"), id, err)
		}
		return fmt.Errorf("delete session: %w", err)
	}
	fmt.Fprintln(console.out, console.translate("message.session_deleted"))
	return nil
}

func (console *Console) Wipe() error {
	if err := console.store.ClearAll(); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}
	fmt.Fprintln(console.out, console.translate("message.data_deleted"))
	return nil
}

// Uploader is the part of the REST client used by Sync.
type Uploader interface {
	UploadSession(session models.PostureSession) (models.PostureSession, error)
	GetSettings() (models.Settings, error)
	UpdateSettings(update models.SettingsUpdate) (models.Settings, error)
}

type SyncResult struct {
	Uploaded int
	Skipped  int
	// SettingsPushed is set when local settings replaced the server copy.
	SettingsPushed bool
}

// Sync uploads every unsynced local session and then reconciles settings:
// settings saved locally are pushed to the account, otherwise the account
// settings are pulled. A session the server already has is marked synced.
// The first other failure stops the run.
func (console *Console) Sync(uploader Uploader) (SyncResult, error) {
	var result SyncResult

	sessions, err := console.store.ListUnsynced()
	if err != nil {
		return result, fmt.Errorf("list unsynced sessions: %w", err)
	}

	for _, session := range sessions {
		_, err := uploader.UploadSession(session)
		switch {
		case errors.Is(err, client.ErrSessionExists):
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("upload session %s: %w", session.ID, err)
		default:
			result.Uploaded++
		}
		if err := console.store.MarkSynced(session.ID, console.now()); err != nil {
			return result, fmt.Errorf("mark session %s synced: %w", session.ID, err)
		}
	}

	local, found, err := console.store.GetSettings()
	if err != nil {
		return result, fmt.Errorf("load settings: %w", err)
	}

	var settings models.Settings
	if found {
		settings, err = uploader.UpdateSettings(models.SettingsUpdate{
			ReminderInterval: &local.ReminderInterval,
			Sensitivity:      &local.Sensitivity,
			EnableReminders:  &local.EnableReminders,
			EnableCamera:     &local.EnableCamera,
		})
		if err != nil {
			return result, fmt.Errorf("push settings: %w", err)
		}
		result.SettingsPushed = true
	} else {
		settings, err = uploader.GetSettings()
		if err != nil {
			return result, fmt.Errorf("fetch settings: %w", err)
		}
	}
	if err := console.store.SaveSettings(settings); err != nil {
		return result, fmt.Errorf("save settings: %w", err)
	}

	direction := "pulled from server"
	if result.SettingsPushed {
		direction = "pushed to server"
	}
	console.logger.Infow("sync finished", "uploaded", result.Uploaded, "skipped", result.Skipped, "settings_pushed", result.SettingsPushed)
	fmt.Fprintf(console.out, "uploaded %d, already on server %d\n", result.Uploaded, result.Skipped)
	fmt.Fprintf(console.out, "settings %s\n", direction)
	return result, nil
}

func (console *Console) translate(key string) string {
	return console.i18n.Translate(console.language, key)
}

func (console *Console) printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(console.out, string(encoded))
	return err
}
