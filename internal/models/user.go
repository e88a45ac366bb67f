package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Publishers own bootcamps and courses; admins bypass
// ownership checks everywhere.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User represents an account in the directory. PasswordHash and the reset
// token fields never leave the process: they are excluded from JSON and only
// the repository reads or writes them.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Role                string             `bson:"role" json:"role"`
	PasswordHash        string             `bson:"password,omitempty" json:"-"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time          `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidRole reports whether role is one a caller may self-assign at
// registration. Admin accounts are created by other admins only.
func ValidRole(role string) bool {
	return role == RoleUser || role == RolePublisher
}
