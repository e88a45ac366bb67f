package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/bootcamp-api/internal/models"
)

func TestAuthorize(t *testing.T) {
	assert.True(t, Authorize(models.RolePublisher, models.RolePublisher, models.RoleAdmin))
	assert.False(t, Authorize(models.RoleUser, models.RolePublisher, models.RoleAdmin))
	assert.False(t, Authorize(models.RoleAdmin))
}

func TestOwnerOrAdmin(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name   string
		userID primitive.ObjectID
		role   string
		want   bool
	}{
		{"owner non-admin", owner, models.RolePublisher, true},
		{"non-owner non-admin", other, models.RolePublisher, false},
		{"non-owner admin", other, models.RoleAdmin, true},
		{"non-owner plain user", other, models.RoleUser, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OwnerOrAdmin(owner, tt.userID, tt.role))
		})
	}
}
