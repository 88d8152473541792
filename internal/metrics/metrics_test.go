package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/sessions/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	app.Get("/metrics", adaptor.HTTPHandler(Handler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/sessions/:id", "404"))
	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/sessions/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/sessions/:id", "404"))
	assert.Equal(t, 2.0, after-before)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "postura_http_requests_total"))
}

func TestRecordSession(t *testing.T) {
	before := testutil.ToFloat64(sessionsRecorded)
	RecordSession(600, 80)
	assert.Equal(t, 1.0, testutil.ToFloat64(sessionsRecorded)-before)

	deletedBefore := testutil.ToFloat64(sessionsDeleted)
	RecordSessionsDeleted(0)
	RecordSessionsDeleted(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(sessionsDeleted)-deletedBefore)
}

func TestRecordAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(authAttempts.WithLabelValues("login", "failure"))
	RecordAuthAttempt("login", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(authAttempts.WithLabelValues("login", "failure"))-before)
}
