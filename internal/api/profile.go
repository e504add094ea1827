package api

import (
	"time"

	"heartlink/internal/domain/entity"
)

// Location is a GeoJSON point.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// AgeRange is the preferred age window.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences are a user's candidate filters.
type Preferences struct {
	AgeRange    AgeRange `json:"ageRange"`
	Gender      []string `json:"gender"`
	MaxDistance int      `json:"maxDistance"`
}

// PublicProfile is what other users may see. It never carries contact details or credentials.
type PublicProfile struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Age            int      `json:"age,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Interests      []string `json:"interests"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	Location       Location `json:"location"`
}

// OwnProfile is the caller's own profile.
type OwnProfile struct {
	PublicProfile
	Email           string      `json:"email"`
	IsEmailVerified bool        `json:"isEmailVerified"`
	Preferences     Preferences `json:"preferences"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// NewPublicProfile projects u onto its public fields.
func NewPublicProfile(u *entity.User) PublicProfile {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		Age:            u.Age,
		Gender:         string(u.Gender),
		Bio:            u.Bio,
		Interests:      interests,
		ProfilePicture: u.ProfilePicture,
		Location: Location{
			Type:        "Point",
			Coordinates: []float64{u.Location.Longitude, u.Location.Latitude},
		},
	}
}

// NewOwnProfile projects u for its owner; the password hash and tokens are dropped.
func NewOwnProfile(u *entity.User) OwnProfile {
	genders := make([]string, 0, len(u.Preferences.Genders))
	for _, g := range u.Preferences.Genders {
		genders = append(genders, string(g))
	}
	return OwnProfile{
		PublicProfile:   NewPublicProfile(u),
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		Preferences: Preferences{
			AgeRange:    AgeRange{Min: u.Preferences.AgeRange.Min, Max: u.Preferences.AgeRange.Max},
			Gender:      genders,
			MaxDistance: u.Preferences.MaxDistance,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
