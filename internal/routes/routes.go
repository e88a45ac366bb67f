package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/bootcamp-api/internal/handlers"
	"github.com/fathima-sithara/bootcamp-api/internal/middleware"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
)

// Deps carries the handlers and the shared middleware the route tree needs.
type Deps struct {
	Auth      *handlers.AuthHandler
	Bootcamps *handlers.BootcampHandler
	Courses   *handlers.CourseHandler
	Reviews   *handlers.ReviewHandler
	Users     *handlers.UserHandler
	Protect   fiber.Handler
	AuthLimit fiber.Handler
}

// Setup mounts the API route tree.
func Setup(app *fiber.App, d Deps) {
	publisherOnly := middleware.RequireRoles(models.RolePublisher, models.RoleAdmin)
	reviewerOnly := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := app.Group("/api/v1")

	bootcamps := api.Group("/bootcamps")
	bootcamps.Get("/", d.Bootcamps.List)
	bootcamps.Post("/", d.Protect, publisherOnly, d.Bootcamps.Create)
	bootcamps.Get("/:id", d.Bootcamps.Get)
	bootcamps.Put("/:id", d.Protect, publisherOnly, d.Bootcamps.Update)
	bootcamps.Delete("/:id", d.Protect, publisherOnly, d.Bootcamps.Delete)
	bootcamps.Put("/:id/photo", d.Protect, publisherOnly, d.Bootcamps.UploadPhoto)

	// nested resources
	bootcamps.Get("/:bootcampId/courses", d.Courses.List)
	bootcamps.Post("/:bootcampId/courses", d.Protect, publisherOnly, d.Courses.Create)
	bootcamps.Get("/:bootcampId/reviews", d.Reviews.List)
	bootcamps.Post("/:bootcampId/reviews", d.Protect, reviewerOnly, d.Reviews.Create)

	courses := api.Group("/courses")
	courses.Get("/", d.Courses.List)
	courses.Get("/:id", d.Courses.Get)
	courses.Put("/:id", d.Protect, publisherOnly, d.Courses.Update)
	courses.Delete("/:id", d.Protect, publisherOnly, d.Courses.Delete)

	reviews := api.Group("/reviews")
	reviews.Get("/", d.Reviews.List)
	reviews.Get("/:id", d.Reviews.Get)
	reviews.Put("/:id", d.Protect, reviewerOnly, d.Reviews.Update)
	reviews.Delete("/:id", d.Protect, reviewerOnly, d.Reviews.Delete)

	auth := api.Group("/auth")
	if d.AuthLimit != nil {
		auth.Use(d.AuthLimit)
	}
	auth.Post("/register", d.Auth.Register)
	auth.Post("/login", d.Auth.Login)
	auth.Get("/me", d.Protect, d.Auth.GetMe)
	auth.Put("/updatedetails", d.Protect, d.Auth.UpdateDetails)
	auth.Put("/updatepassword", d.Protect, d.Auth.UpdatePassword)
	auth.Post("/forgotpassword", d.Auth.ForgotPassword)
	auth.Put("/resetpassword/:resettoken", d.Auth.ResetPassword)

	users := api.Group("/users", d.Protect, adminOnly)
	users.Get("/", d.Users.List)
	users.Post("/", d.Users.Create)
	users.Get("/:id", d.Users.Get)
	users.Put("/:id", d.Users.Update)
	users.Delete("/:id", d.Users.Delete)
}
