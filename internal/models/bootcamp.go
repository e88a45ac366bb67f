package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Careers a bootcamp may list.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Location is a GeoJSON point resolved from the bootcamp's address.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

type Bootcamp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Careers       []string           `bson:"careers" json:"careers"`
	AverageRating float64            `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	AverageCost   float64            `bson:"averageCost,omitempty" json:"averageCost,omitempty"`
	Photo         string             `bson:"photo" json:"photo"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi" json:"acceptGi"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidCareer reports whether career is one of the listed Careers.
func ValidCareer(career string) bool {
	for _, c := range Careers {
		if c == career {
			return true
		}
	}
	return false
}

// Slugify lowercases the name and collapses everything outside [a-z0-9]
// into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
