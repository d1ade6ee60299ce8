package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. The biometric profile lives on the same
// document so a single read gives the pipeline everything except weight.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName       string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash      string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	ProfilePictureKey string             `bson:"profilePictureKey,omitempty" json:"-"`
	Profile           *BiometricProfile  `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasProfile reports whether the user completed onboarding.
func (u *User) HasProfile() bool {
	return u.Profile != nil && u.Profile.HeightCm > 0 && u.Profile.Age > 0
}
