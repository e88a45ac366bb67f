package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"github.com/fathima-sithara/bootcamp-api/internal/query"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

// UserHandler is the admin-only user CRUD surface. Listing goes through the
// generic query compiler; single-record operations use the user repository.
type UserHandler struct {
	users    repository.UserRepository
	usersCol *repository.Collection
}

func NewUserHandler(users repository.UserRepository, usersCol *repository.Collection) *UserHandler {
	return &UserHandler{users: users, usersCol: usersCol}
}

// credentialFields never leave the process, whatever the caller selects.
var credentialFields = []string{"password", "resetPasswordToken", "resetPasswordExpire"}

func (h *UserHandler) List(c *fiber.Ctx) error {
	spec := query.Compile(c.Queries())
	res, err := query.Execute(c.Context(), h.usersCol, spec)
	if err != nil {
		return apperr.Internal(err)
	}
	for _, item := range res.Items {
		for _, f := range credentialFields {
			delete(item, f)
		}
	}
	return listResponse(c, res)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, user)
}

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return apperr.BadRequest("Please provide a name, email and password of at least 6 characters")
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !models.ValidRole(req.Role) && req.Role != models.RoleAdmin {
		return apperr.BadRequest("Invalid role")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperr.Internal(err)
	}
	user := &models.User{Name: req.Name, Email: req.Email, Role: req.Role, PasswordHash: hash}
	if err := h.users.Create(c.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("Duplicate field is not allowed")
		}
		return apperr.Internal(err)
	}
	return dataResponse(c, fiber.StatusCreated, user)
}

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	target, err := h.users.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var req updateUserReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) && req.Role != models.RoleAdmin {
			return apperr.BadRequest("Invalid role")
		}
		set["role"] = req.Role
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return apperr.BadRequest("Password must be at least 6 characters")
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		set["password"] = hash
	}
	if len(set) == 0 {
		return apperr.BadRequest("No updatable fields provided")
	}

	updated, err := h.users.UpdateDetails(c.Context(), target.ID, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("Duplicate field is not allowed")
		}
		return err
	}
	return dataResponse(c, fiber.StatusOK, updated)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	var deleted models.User
	if err := h.usersCol.DeleteByID(c.Context(), c.Params("id"), &deleted); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, deleted)
}
