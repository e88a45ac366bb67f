package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
)

// Uploads are optional at deploy time. A request against a deployment with no
// object store configured must answer with the error envelope, not crash.
func TestUploadPhotoWithoutConfiguredStore(t *testing.T) {
	h := NewBootcampHandler(nil, nil, nil, nil, 1<<20, zap.NewNop().Sugar())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ae, ok := apperr.As(err); ok {
				return c.Status(ae.Status).JSON(fiber.Map{"success": false, "error": ae.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Server Error"})
		},
	})
	app.Put("/bootcamps/:id/photo", func(c *fiber.Ctx) error {
		c.Locals("user", &models.User{ID: primitive.NewObjectID(), Role: models.RolePublisher})
		return c.Next()
	}, h.UploadPhoto)

	req := httptest.NewRequest(http.MethodPut, "/bootcamps/"+primitive.NewObjectID().Hex()+"/photo", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Photo uploads are not configured", body.Error)
}
