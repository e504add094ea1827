// Package adapters provides the credential store implementations shared by every feature.
package adapters

import (
	"time"

	"heartlink/internal/domain/entity"
)

// UserModel is the relational row for a user.
type UserModel struct {
	ID              string `gorm:"primaryKey;size:24"`
	Email           string `gorm:"uniqueIndex;size:255;not null"`
	Password        string `gorm:"size:255;not null"`
	IsEmailVerified bool   `gorm:"not null;default:false"`

	VerificationToken    *string `gorm:"index;size:64"`
	ResetPasswordToken   *string `gorm:"index;size:64"`
	ResetPasswordExpires *time.Time

	Name           string   `gorm:"size:100"`
	Age            int      `gorm:"not null;default:0"`
	Gender         string   `gorm:"size:10"`
	Bio            string   `gorm:"size:500"`
	Interests      []string `gorm:"serializer:json"`
	Longitude      float64
	Latitude       float64
	ProfilePicture string `gorm:"size:512"`

	PrefAgeMin      int
	PrefAgeMax      int
	PrefGenders     []string `gorm:"serializer:json"`
	PrefMaxDistance int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserModel(u *entity.User) *UserModel {
	genders := make([]string, 0, len(u.Preferences.Genders))
	for _, g := range u.Preferences.Genders {
		genders = append(genders, string(g))
	}
	return &UserModel{
		ID:                   u.ID,
		Email:                u.Email,
		Password:             u.Password,
		IsEmailVerified:      u.IsEmailVerified,
		VerificationToken:    optional(u.VerificationToken),
		ResetPasswordToken:   optional(u.ResetPasswordToken),
		ResetPasswordExpires: u.ResetPasswordExpires,
		Name:                 u.Name,
		Age:                  u.Age,
		Gender:               string(u.Gender),
		Bio:                  u.Bio,
		Interests:            u.Interests,
		Longitude:            u.Location.Longitude,
		Latitude:             u.Location.Latitude,
		ProfilePicture:       u.ProfilePicture,
		PrefAgeMin:           u.Preferences.AgeRange.Min,
		PrefAgeMax:           u.Preferences.AgeRange.Max,
		PrefGenders:          genders,
		PrefMaxDistance:      u.Preferences.MaxDistance,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// ToEntity converts the row to a domain user.
func (m *UserModel) ToEntity() *entity.User {
	var genders []entity.Gender
	for _, g := range m.PrefGenders {
		genders = append(genders, entity.Gender(g))
	}
	return &entity.User{
		ID:                   m.ID,
		Email:                m.Email,
		Password:             m.Password,
		IsEmailVerified:      m.IsEmailVerified,
		VerificationToken:    deref(m.VerificationToken),
		ResetPasswordToken:   deref(m.ResetPasswordToken),
		ResetPasswordExpires: m.ResetPasswordExpires,
		Name:                 m.Name,
		Age:                  m.Age,
		Gender:               entity.Gender(m.Gender),
		Bio:                  m.Bio,
		Interests:            m.Interests,
		Location:             entity.GeoPoint{Longitude: m.Longitude, Latitude: m.Latitude},
		ProfilePicture:       m.ProfilePicture,
		Preferences: entity.Preferences{
			AgeRange:    entity.AgeRange{Min: m.PrefAgeMin, Max: m.PrefAgeMax},
			Genders:     genders,
			MaxDistance: m.PrefMaxDistance,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
