package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/middleware"
	"github.com/fathima-sithara/bootcamp-api/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	_, token, err := h.svc.Register(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return tokenResponse(c, fiber.StatusCreated, token)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	_, token, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return tokenResponse(c, fiber.StatusOK, token)
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	return dataResponse(c, fiber.StatusOK, middleware.CurrentUser(c))
}

type updateDetailsReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) UpdateDetails(c *fiber.Ctx) error {
	var req updateDetailsReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	user, err := h.svc.UpdateDetails(c.Context(), middleware.CurrentUser(c), req.Name, req.Email)
	if err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, user)
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	token, err := h.svc.UpdatePassword(c.Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return tokenResponse(c, fiber.StatusOK, token)
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordReq
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return apperr.BadRequest("Please provide an email")
	}
	if err := h.svc.ForgotPassword(c.Context(), req.Email, c.BaseURL()); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, "Email sent")
}

type resetPasswordReq struct {
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	_, token, err := h.svc.ResetPassword(c.Context(), c.Params("resettoken"), req.Password)
	if err != nil {
		return err
	}
	return tokenResponse(c, fiber.StatusOK, token)
}
