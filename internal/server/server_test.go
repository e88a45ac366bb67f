package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/config"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, path string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandlerMapsFailures(t *testing.T) {
	app := New(&config.Config{}, zap.NewNop())

	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return repository.ErrNotFound
	})
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return apperr.Forbidden("User role 'user' is not authorized to access this route")
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		// a handler panic is recovered into the envelope, never a crash
		{"panic recovered", "/panic", http.StatusInternalServerError, "Server Error"},
		{"not found", "/missing", http.StatusNotFound, "Resource not found"},
		{"typed error", "/forbidden", http.StatusForbidden, "User role 'user' is not authorized to access this route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
