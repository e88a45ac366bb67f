package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/bootcamp-api/internal/query"
)

// Response envelope shared by every endpoint: {success, count?, pagination?,
// data?} on success, {success:false, error} via the app error handler.

func dataResponse(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func listResponse(c *fiber.Ctx, res *query.PageResult) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(res.Items),
		"pagination": res.Pagination(),
		"data":       res.Items,
	})
}

func tokenResponse(c *fiber.Ctx, status int, token string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}
