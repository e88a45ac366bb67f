package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/mailer"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

// ErrInvalidOrExpiredToken is returned when a reset token does not match any
// pending reset or its window has passed.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

// AuthService owns the credential lifecycle: registration, login, password
// changes and the forgot/reset password flow.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	mail   mailer.Sender
	logger *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, mail mailer.Sender, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, mail: mail, logger: logger}
}

// Register creates an account and returns it with a fresh session token.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.BadRequest("Please provide a name, email and password")
	}
	if len(password) < 6 {
		return nil, "", apperr.BadRequest("Password must be at least 6 characters")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, "", apperr.BadRequest(fmt.Sprintf("Role '%s' is not allowed", role))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	user := &models.User{Name: name, Email: email, Role: role, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperr.Conflict("Duplicate field is not allowed")
		}
		return nil, "", apperr.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.BadRequest("Please provide an email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Unauthorized("Invalid credentials")
		}
		return nil, "", apperr.Internal(err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return user, token, nil
}

// UpdateDetails changes name and/or email of the current user.
func (s *AuthService) UpdateDetails(ctx context.Context, user *models.User, name, email string) (*models.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	if len(set) == 0 {
		return user, nil
	}

	updated, err := s.users.UpdateDetails(ctx, user.ID, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Duplicate field is not allowed")
		}
		return nil, apperr.Internal(err)
	}
	return updated, nil
}

// UpdatePassword replaces the password after checking the current one, and
// issues a fresh session token.
func (s *AuthService) UpdatePassword(ctx context.Context, user *models.User, current, next string) (string, error) {
	if !auth.CheckPassword(current, user.PasswordHash) {
		return "", apperr.Unauthorized("Password is incorrect")
	}
	if len(next) < 6 {
		return "", apperr.BadRequest("Password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return "", apperr.Internal(err)
	}
	return s.tokens.Issue(user.ID.Hex())
}

// ForgotPassword issues a reset token for the account behind email and mails
// the reset URL. A new request overwrites any pending token. If the mail
// cannot be sent the pending token is cleared again so no orphaned reset
// stays live.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("There is no user with that email")
		}
		return apperr.Internal(err)
	}

	plain, err := auth.NewResetToken()
	if err != nil {
		return apperr.Internal(err)
	}
	expire := time.Now().Add(auth.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, auth.HashResetToken(plain), expire); err != nil {
		return apperr.Internal(err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetpassword/%s", resetURLBase, plain)
	html := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to: <a href=%q>%s</a>",
		resetURL, resetURL,
	)
	if err := s.mail.Send(ctx, user.Email, "Password reset token", html); err != nil {
		s.logger.Errorw("reset email could not be sent", "email", user.Email, "error", err)
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Errorw("failed to clear reset token after mail failure", "error", clearErr)
		}
		return apperr.Internal(err)
	}
	return nil
}

// ResetPassword consumes a reset token: the stored hash must match and the
// expiry must still be in the future. On success the password is replaced,
// the pending reset is cleared and a session token is issued.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) (*models.User, string, error) {
	if len(newPassword) < 6 {
		return nil, "", apperr.BadRequest("Password must be at least 6 characters")
	}

	user, err := s.users.FindByResetToken(ctx, auth.HashResetToken(plainToken), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Wrap(400, "Invalid token", ErrInvalidOrExpiredToken)
		}
		return nil, "", apperr.Internal(err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return nil, "", apperr.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return user, token, nil
}
