package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/postura/internal/client"
	"github.com/terraincognita07/postura/internal/i18n"
	"github.com/terraincognita07/postura/internal/localstore"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/services"
)

func newTestConsole(t *testing.T, language string) (*Console, *localstore.Store, *bytes.Buffer) {
	t.Helper()

	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	manager, err := i18n.NewDefaultManager("en")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewConsole(store, manager, language, out, nil), store, out
}

func storedSession(id string, start time.Time, total int, good int, score int) models.PostureSession {
	end := start.Add(time.Duration(total) * time.Second)
	return models.PostureSession{
		ID:              id,
		StartTime:       start,
		EndTime:         &end,
		TotalTime:       total,
		GoodPostureTime: good,
		AverageScore:    score,
		Issues:          []models.PostureIssue{},
		Scores:          []models.ScoreSample{},
	}
}

func TestConsoleTrackSavesSession(t *testing.T) {
	console, store, out := newTestConsole(t, "en")

	session, err := console.Track(context.Background(), TrackOptions{
		Duration: 120 * time.Millisecond,
		Interval: 10 * time.Millisecond,
		Seed:     7,
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.NotNil(t, session.EndTime)
	assert.LessOrEqual(t, session.GoodPostureTime, session.TotalTime)
	assert.GreaterOrEqual(t, session.AverageScore, 0)
	assert.LessOrEqual(t, session.AverageScore, 100)

	saved, err := store.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.AverageScore, saved.AverageScore)
	assert.Len(t, saved.Scores, len(session.Scores))

	output := out.String()
	assert.Contains(t, output, "Tracking started")
	assert.Contains(t, output, "Session finished")
}

func TestConsoleTrackKeepsSessionWhenStorageFails(t *testing.T) {
	console, store, out := newTestConsole(t, "ru")
	require.NoError(t, store.Close())

	session, err := console.Track(context.Background(), TrackOptions{
		Duration: 30 * time.Millisecond,
		Interval: 10 * time.Millisecond,
		Seed:     3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	manager, err := i18n.NewDefaultManager("en")
	require.NoError(t, err)
	assert.Contains(t, out.String(), manager.Translate("ru", "cli.storage_warning"))
}

func TestConsoleHistoryAndStats(t *testing.T) {
	console, store, out := newTestConsole(t, "en")

	require.NoError(t, console.History())
	assert.Contains(t, out.String(), "No sessions recorded yet")

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	console.now = func() time.Time { return now }

	require.NoError(t, store.SaveSession(storedSession("recent-a", now.Add(-24*time.Hour), 100, 80, 80)))
	require.NoError(t, store.SaveSession(storedSession("recent-b", now.Add(-48*time.Hour), 200, 150, 60)))
	require.NoError(t, store.SaveSession(storedSession("old", now.AddDate(0, 0, -30), 300, 220, 100)))
	require.NoError(t, store.MarkSynced("old", now))

	out.Reset()
	require.NoError(t, console.History())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "recent-a"))
	assert.True(t, strings.HasSuffix(lines[2], "synced"))
	assert.True(t, strings.HasSuffix(lines[0], "local"))

	summary, err := console.Stats(false)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Equal(t, 600, summary.TotalTime)
	assert.Equal(t, 80, summary.AverageScore)
	assert.Equal(t, 75, summary.PosturePercentage)

	weekly, err := console.Stats(true)
	require.NoError(t, err)
	assert.Equal(t, 2, weekly.TotalSessions)
	assert.Equal(t, 300, weekly.TotalTime)
	assert.Equal(t, 70, weekly.AverageScore)
}

func TestConsoleProfileAndSettings(t *testing.T) {
	console, store, _ := newTestConsole(t, "en")

	_, err := console.SetProfile(models.ProfileUpdate{})
	assert.ErrorIs(t, err, services.ErrProfileInvalid)

	name := "  Ada "
	profile, err := console.SetProfile(models.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, models.GoalPostureCorrection, profile.FitnessGoal)

	age := 36
	profile, err = console.SetProfile(models.ProfileUpdate{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, 36, profile.Age)

	sensitivity := 0.5
	settings, err := console.SetSettings(models.SettingsUpdate{Sensitivity: &sensitivity})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, settings.Sensitivity, 0.0001)
	assert.Equal(t, models.DefaultReminderInterval, settings.ReminderInterval)
	assert.True(t, settings.EnableReminders)

	tooHigh := 2.0
	_, err = console.SetSettings(models.SettingsUpdate{Sensitivity: &tooHigh})
	assert.ErrorIs(t, err, services.ErrSettingsInvalid)

	stored, found, err := store.GetSettings()
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 0.5, stored.Sensitivity, 0.0001)
}

func TestConsoleDeleteAndWipe(t *testing.T) {
	console, store, out := newTestConsole(t, "en")
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(storedSession("one", start, 10, 5, 50)))

	require.NoError(t, console.Delete("one"))
	assert.Contains(t, out.String(), "Session deleted")

	err := console.Delete("one")
	assert.ErrorIs(t, err, localstore.ErrNotFound)

	require.NoError(t, store.SaveSession(storedSession("two", start, 10, 5, 50)))
	require.NoError(t, console.Wipe())
	sessions, err := store.ListSessions()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

type stubUploader struct {
	known    map[string]bool
	failOn   string
	uploaded []string
	settings models.Settings
	pushed   *models.SettingsUpdate
}

func (uploader *stubUploader) UploadSession(session models.PostureSession) (models.PostureSession, error) {
	if session.ID == uploader.failOn {
		return models.PostureSession{}, &client.APIError{Status: 500, Code: "internal error"}
	}
	if uploader.known[session.ID] {
		return models.PostureSession{}, client.ErrSessionExists
	}
	uploader.uploaded = append(uploader.uploaded, session.ID)
	return session, nil
}

func (uploader *stubUploader) GetSettings() (models.Settings, error) {
	return uploader.settings, nil
}

func (uploader *stubUploader) UpdateSettings(update models.SettingsUpdate) (models.Settings, error) {
	uploader.pushed = &update
	uploader.settings = update.Apply(uploader.settings)
	return uploader.settings, nil
}

func TestConsoleSyncUploadsPendingSessions(t *testing.T) {
	console, store, _ := newTestConsole(t, "en")
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(storedSession("new", start, 10, 5, 50)))
	require.NoError(t, store.SaveSession(storedSession("replayed", start.Add(time.Hour), 10, 5, 50)))
	require.NoError(t, store.SaveSession(storedSession("done", start.Add(2*time.Hour), 10, 5, 50)))
	require.NoError(t, store.MarkSynced("done", start))

	remote := models.DefaultSettings()
	remote.ReminderInterval = 30
	uploader := &stubUploader{known: map[string]bool{"replayed": true}, settings: remote}

	result, err := console.Sync(uploader)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Uploaded: 1, Skipped: 1}, result)
	assert.Equal(t, []string{"new"}, uploader.uploaded)

	pending, err := store.ListUnsynced()
	require.NoError(t, err)
	assert.Empty(t, pending)

	settings, _, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 30, settings.ReminderInterval)
	assert.Nil(t, uploader.pushed)
}

func TestConsoleSyncPushesLocalSettings(t *testing.T) {
	console, store, out := newTestConsole(t, "en")
	local := models.DefaultSettings()
	local.Sensitivity = 0.3
	local.EnableReminders = false
	require.NoError(t, store.SaveSettings(local))

	remote := models.DefaultSettings()
	remote.Sensitivity = 0.9
	uploader := &stubUploader{settings: remote}

	result, err := console.Sync(uploader)
	require.NoError(t, err)
	assert.True(t, result.SettingsPushed)
	require.NotNil(t, uploader.pushed)
	assert.Equal(t, 0.3, *uploader.pushed.Sensitivity)
	assert.False(t, *uploader.pushed.EnableReminders)
	assert.Equal(t, 0.3, uploader.settings.Sensitivity)

	settings, found, err := store.GetSettings()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.3, settings.Sensitivity)
	assert.False(t, settings.EnableReminders)
	assert.Contains(t, out.String(), "settings pushed to server")
}

func TestConsoleSyncStopsOnServerError(t *testing.T) {
	console, store, _ := newTestConsole(t, "en")
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(storedSession("broken", start, 10, 5, 50)))

	_, err := console.Sync(&stubUploader{failOn: "broken"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))

	pending, err := store.ListUnsynced()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestPromptPasswordReadsPipedInput(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer reader.Close()

	_, err = writer.WriteString("s3cret!\n")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	var out bytes.Buffer
	password, err := PromptPassword("Password: ", reader, &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", password)
	assert.Equal(t, "Password: ", out.String())
}
