// Package entity defines the domain entities shared across features.
package entity

import (
	"slices"
	"time"
)

// Gender is one of the accepted gender values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid reports whether g is one of the accepted values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

const (
	// MinAge is the minimum age for a profile and for age preferences.
	MinAge = 18
	// MaxAge is the maximum age accepted on a profile.
	MaxAge = 100
	// MaxBioLength is the maximum bio length in characters.
	MaxBioLength = 500

	defaultMaxPreferredAge = 99
	defaultMaxDistance     = 50
)

// Interests is the fixed interest vocabulary.
var Interests = []string{
	"travel", "music", "movies", "books", "sports",
	"cooking", "photography", "art", "gaming", "fitness",
	"nature", "technology", "food", "pets", "dancing",
}

// IsValidInterest reports whether s belongs to the interest vocabulary.
func IsValidInterest(s string) bool {
	return slices.Contains(Interests, s)
}

// GeoPoint is a longitude/latitude pair. Stored as a GeoJSON point in Mongo.
type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// AgeRange bounds the ages a user wants to see.
type AgeRange struct {
	Min int
	Max int
}

// Preferences are a user's candidate filters.
type Preferences struct {
	AgeRange    AgeRange
	Genders     []Gender
	MaxDistance int
}

// DefaultPreferences returns the preferences assigned at signup.
func DefaultPreferences() Preferences {
	return Preferences{
		AgeRange:    AgeRange{Min: MinAge, Max: defaultMaxPreferredAge},
		MaxDistance: defaultMaxDistance,
	}
}

// User is an identity record with credentials and profile.
type User struct {
	ID    string
	Email string
	// Password holds the bcrypt hash, never plaintext.
	Password        string
	IsEmailVerified bool

	VerificationToken    string
	ResetPasswordToken   string
	ResetPasswordExpires *time.Time

	Name           string
	Age            int
	Gender         Gender
	Bio            string
	Interests      []string
	Location       GeoPoint
	ProfilePicture string
	Preferences    Preferences

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProfile reports whether the profile has been created.
func (u *User) HasProfile() bool {
	return u.Name != "" || u.Age != 0
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name        *string
	Age         *int
	Gender      *Gender
	Bio         *string
	Interests   []string
	Location    *GeoPoint
	AgeRange    *AgeRange
	Genders     []Gender
	MaxDistance *int
}

// ApplyTo copies the set fields of p onto u.
func (p ProfileUpdate) ApplyTo(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Interests != nil {
		u.Interests = p.Interests
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.AgeRange != nil {
		u.Preferences.AgeRange = *p.AgeRange
	}
	if p.Genders != nil {
		u.Preferences.Genders = p.Genders
	}
	if p.MaxDistance != nil {
		u.Preferences.MaxDistance = *p.MaxDistance
	}
}
