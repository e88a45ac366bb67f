package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/bootcamp-api/internal/models"
)

// UserRepository is the user-record surface the credential subsystem works
// against. Credential mutations rely on mongo's single-document atomicity;
// concurrent reset issuance for the same user is last write wins.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByResetToken matches the stored token hash with an unexpired
	// expiry. An expired or unknown token is a plain ErrNotFound.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	// ResetPassword sets the new password hash and clears the pending reset
	// token in one atomic document update.
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}
