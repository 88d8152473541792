package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/i18n"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-with-enough-length-000"

func newTestApp(t *testing.T) (*fiber.App, *Handler, *gorm.DB) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "postura-api-test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	i18nManager, err := i18n.NewDefaultManager("en")
	require.NoError(t, err)

	handler, err := NewHandler(database, testSecretKey, time.UTC, i18nManager, nil)
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler, database
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any, headers ...string) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	for index := 0; index+1 < len(headers); index += 2 {
		request.Header.Set(headers[index], headers[index+1])
	}

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	defer response.Body.Close()

	decoded := map[string]any{}
	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return response, decoded
}

func registerTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "secret1",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, response.StatusCode, "body: %v", body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}
