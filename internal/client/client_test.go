package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/postura/internal/api"
	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/i18n"
	"github.com/terraincognita07/postura/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "server.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	manager, err := i18n.NewDefaultManager("en")
	require.NoError(t, err)
	handler, err := api.NewHandler(database, "client-test-secret-key-0123456789abcdef", time.UTC, manager, nil)
	require.NoError(t, err)

	app := fiber.New()
	api.RegisterRoutes(app, handler)

	server := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(server.Close)
	return server
}

func localSession(start time.Time) models.PostureSession {
	end := start.Add(6 * time.Second)
	return models.PostureSession{
		ID:              uuid.NewString(),
		StartTime:       start,
		EndTime:         &end,
		TotalTime:       6,
		GoodPostureTime: 4,
		AverageScore:    80,
		Issues:          []models.PostureIssue{},
		Scores: []models.ScoreSample{
			{Score: 80, Timestamp: start},
			{Score: 60, Timestamp: start.Add(2 * time.Second)},
			{Score: 100, Timestamp: start.Add(4 * time.Second)},
		},
	}
}

func TestClientSyncFlow(t *testing.T) {
	server := newTestServer(t)
	client := New(server.URL + "/")

	user, err := client.Register(RegisterRequest{Email: "sync@example.com", Password: "secret1", Name: "Sync"})
	require.NoError(t, err)
	assert.Equal(t, "sync@example.com", user.Email)
	assert.NotEmpty(t, client.Token())

	session := localSession(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	uploaded, err := client.UploadSession(session)
	require.NoError(t, err)
	assert.Equal(t, session.ID, uploaded.ID)
	assert.Equal(t, "posturectl", uploaded.Device.UserAgent)

	_, err = client.UploadSession(session)
	assert.ErrorIs(t, err, ErrSessionExists)

	sessions, pagination, err := client.ListSessions(1, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(1), pagination.Total)

	stats, err := client.Stats(false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 80, stats.AverageScore)

	require.NoError(t, client.DeleteSession(session.ID))
	err = client.DeleteSession(session.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "session not found", apiErr.Code)
}

func TestClientLoginProfileAndSettings(t *testing.T) {
	server := newTestServer(t)

	registrar := New(server.URL)
	_, err := registrar.Register(RegisterRequest{Email: "login@example.com", Password: "secret1", Name: "Login"})
	require.NoError(t, err)

	client := New(server.URL)
	_, err = client.Login("login@example.com", "bad-password")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	user, err := client.Login("login@example.com", "secret1")
	require.NoError(t, err)
	assert.NotNil(t, user.LastActive)

	sensitivity := 0.4
	settings, err := client.UpdateSettings(models.SettingsUpdate{Sensitivity: &sensitivity})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, settings.Sensitivity, 0.0001)
	assert.Equal(t, models.DefaultReminderInterval, settings.ReminderInterval)

	fetched, err := client.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, settings, fetched)

	age := 33
	updated, err := client.UpdateProfile(models.ProfileUpdate{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 33, updated.Age)
	assert.Equal(t, "Login", updated.Name)

	me, err := client.Me()
	require.NoError(t, err)
	assert.Equal(t, 33, me.Age)

	require.NoError(t, client.WipeData())
}

func TestClientWithoutToken(t *testing.T) {
	server := newTestServer(t)
	client := New(server.URL)

	_, err := client.Stats(true)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "unauthorized", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "401")
}
