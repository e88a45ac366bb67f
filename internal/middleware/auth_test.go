package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

// stubUserRepo serves a single user by id. The embedded interface keeps the
// stub small; only FindByID is ever reached from Protect.
type stubUserRepo struct {
	repository.UserRepository
	user *models.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID.Hex() == id {
		return s.user, nil
	}
	return nil, repository.ErrNotFound
}

func newProtectedApp(tokens *auth.TokenManager, users repository.UserRepository, roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ae, ok := apperr.As(err); ok {
				return c.Status(ae.Status).JSON(fiber.Map{"success": false, "error": ae.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Server Error"})
		},
	})
	handlers := []fiber.Handler{Protect(tokens, users)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": CurrentUser(c).Email})
	})
	app.Get("/private", handlers...)
	return app
}

func TestProtect(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "john@example.com", Role: models.RoleUser}
	users := &stubUserRepo{user: user}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	valid, err := tokens.Issue(user.ID.Hex())
	require.NoError(t, err)

	foreign, err := auth.NewTokenManager("other-secret", time.Hour).Issue(user.ID.Hex())
	require.NoError(t, err)

	expired, err := auth.NewTokenManager("test-secret", -time.Minute).Issue(user.ID.Hex())
	require.NoError(t, err)

	unknown, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"unknown user", "Bearer " + unknown, http.StatusUnauthorized},
	}

	app := newProtectedApp(tokens, users)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "john@example.com", Role: models.RoleUser}
	users := &stubUserRepo{user: user}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tokens.Issue(user.ID.Hex())
	require.NoError(t, err)

	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{"role allowed", []string{models.RoleUser, models.RoleAdmin}, http.StatusOK},
		{"role denied", []string{models.RolePublisher, models.RoleAdmin}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(tokens, users, tt.roles...)
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
