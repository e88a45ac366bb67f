package auth

import (
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Authorize reports whether role is one of the allowed roles.
func Authorize(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// OwnerOrAdmin permits a mutation when the acting user owns the target
// resource or holds the admin role. Ownership alone is never enough for
// other roles to touch someone else's resource.
func OwnerOrAdmin(ownerID, userID primitive.ObjectID, role string) bool {
	return role == models.RoleAdmin || ownerID == userID
}
