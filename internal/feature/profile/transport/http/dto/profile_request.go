// Package dto defines request bodies for the profile feature's HTTP transport layer.
package dto

import "heartlink/internal/domain/entity"

// LocationReq is a GeoJSON point; coordinates are [longitude, latitude].
type LocationReq struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates" binding:"len=2"`
}

type AgeRangeReq struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type PreferencesReq struct {
	AgeRange    *AgeRangeReq `json:"ageRange"`
	Gender      []string     `json:"gender" binding:"omitempty,dive,gender"`
	MaxDistance *int         `json:"maxDistance"`
}

// ProfileReq is the body of POST and PATCH /api/profile/me. Absent fields are left unchanged.
type ProfileReq struct {
	Name        *string         `json:"name"`
	Age         *int            `json:"age"`
	Gender      *string         `json:"gender" binding:"omitempty,gender"`
	Bio         *string         `json:"bio"`
	Interests   []string        `json:"interests" binding:"omitempty,dive,interest"`
	Location    *LocationReq    `json:"location"`
	Preferences *PreferencesReq `json:"preferences"`
}

// ToUpdate converts the request into a domain update.
func (r ProfileReq) ToUpdate() entity.ProfileUpdate {
	up := entity.ProfileUpdate{
		Name:      r.Name,
		Age:       r.Age,
		Bio:       r.Bio,
		Interests: r.Interests,
	}
	if r.Gender != nil {
		g := entity.Gender(*r.Gender)
		up.Gender = &g
	}
	if r.Location != nil && len(r.Location.Coordinates) == 2 {
		up.Location = &entity.GeoPoint{
			Longitude: r.Location.Coordinates[0],
			Latitude:  r.Location.Coordinates[1],
		}
	}
	if p := r.Preferences; p != nil {
		if p.AgeRange != nil {
			up.AgeRange = &entity.AgeRange{Min: p.AgeRange.Min, Max: p.AgeRange.Max}
		}
		if p.Gender != nil {
			up.Genders = make([]entity.Gender, 0, len(p.Gender))
			for _, g := range p.Gender {
				up.Genders = append(up.Genders, entity.Gender(g))
			}
		}
		up.MaxDistance = p.MaxDistance
	}
	return up
}
