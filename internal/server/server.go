package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/config"
	"github.com/fathima-sithara/bootcamp-api/internal/middleware"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

// New initializes the Fiber application with config, error handling and the
// global middlewares. Routes are mounted by the caller.
func New(cfg *config.Config, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		ErrorHandler: errorHandler(logger.Sugar()),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(logger))

	return app
}

// errorHandler maps typed failures onto the response envelope. Anything
// unclassified answers 500 without leaking the underlying error.
func errorHandler(logger *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Server Error"

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status, message = ae.Status, ae.Message
		case errors.Is(err, repository.ErrNotFound):
			status, message = fiber.StatusNotFound, "Resource not found"
		case errors.Is(err, repository.ErrDuplicate):
			status, message = fiber.StatusBadRequest, "Duplicate field is not allowed"
		case errors.As(err, &fe):
			status, message = fe.Code, fe.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.Errorw("request failed", "path", c.Path(), "error", err)
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
