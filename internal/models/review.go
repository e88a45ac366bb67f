package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review of a bootcamp. The (bootcamp, user) pair is unique: one review per
// user per bootcamp, enforced by an index in the repository.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Rating    float64            `bson:"rating" json:"rating"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
