package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

const userLocal = "user"

// Protect requires a valid bearer token and loads the authenticated user
// into the request locals. Every failure, whatever the cause, answers 401.
func Protect(tokens *auth.TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return apperr.Unauthorized("Not authorized to access this route")
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return apperr.Unauthorized("Not authorized to access this route")
		}

		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Unauthorized("Not authorized to access this route")
			}
			return apperr.Internal(err)
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// RequireRoles gates a route to the given roles. Must run after Protect.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperr.Unauthorized("Not authorized to access this route")
		}
		if !auth.Authorize(user.Role, roles...) {
			return apperr.Forbidden(fmt.Sprintf("User role '%s' is not authorized to access this route", user.Role))
		}
		return c.Next()
	}
}

// CurrentUser returns the user Protect stored on the request, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}
