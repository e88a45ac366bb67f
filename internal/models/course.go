package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Minimum skill levels accepted on a course.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

func ValidSkill(s string) bool {
	return s == SkillBeginner || s == SkillIntermediate || s == SkillAdvanced
}

type Course struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	Weeks                string             `bson:"weeks" json:"weeks"`
	Tuition              float64            `bson:"tuition" json:"tuition"`
	MinimumSkill         string             `bson:"minimumSkill" json:"minimumSkill"`
	ScholarshipAvailable bool               `bson:"scholarshipAvailable" json:"scholarshipAvailable"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User                 primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
