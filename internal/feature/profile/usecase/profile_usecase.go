// Package usecase implements profile creation, updates and picture uploads.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"heartlink/internal/domain/entity"
)

// MaxPictureSize is the upload limit for profile pictures.
const MaxPictureSize = 5 << 20

const maxNameLength = 100

// UserRepository is the credential store as seen by profile.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	SetProfilePicture(ctx context.Context, id, url string) error
}

// PictureStore persists an image and returns its public URL.
type PictureStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// PictureModerator rejects unsafe images with ErrPictureRejected.
type PictureModerator interface {
	Check(ctx context.Context, data []byte) error
}

type profileUsecase struct {
	users     UserRepository
	pictures  PictureStore
	moderator PictureModerator
	newKey    func(userID, ext string) string
}

// NewProfileUsecase creates the profile usecase. pictures and moderator may be nil.
func NewProfileUsecase(users UserRepository, pictures PictureStore, moderator PictureModerator) *profileUsecase {
	return &profileUsecase{
		users:     users,
		pictures:  pictures,
		moderator: moderator,
		newKey: func(userID, ext string) string {
			return fmt.Sprintf("profile_pictures/%s/%s%s", userID, uuid.NewString(), ext)
		},
	}
}

// GetProfile returns the caller's own user record.
func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// CreateProfile fills the profile of a user that has none yet.
func (u *profileUsecase) CreateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasProfile() {
		return nil, ErrProfileExists
	}
	if in.Name == nil || in.Age == nil {
		return nil, ErrNameAgeMissing
	}
	return u.apply(ctx, user, in)
}

// UpdateProfile changes only the provided fields of an existing profile.
func (u *profileUsecase) UpdateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, ErrProfileMissing
	}
	return u.apply(ctx, user, in)
}

func (u *profileUsecase) apply(ctx context.Context, user *entity.User, in entity.ProfileUpdate) (*entity.User, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	in.ApplyTo(user)
	if err := u.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks every provided field of in.
func Validate(in entity.ProfileUpdate) error {
	if in.Name != nil {
		if n := utf8.RuneCountInString(strings.TrimSpace(*in.Name)); n == 0 || n > maxNameLength {
			return ErrInvalidName
		}
	}
	if in.Age != nil && (*in.Age < entity.MinAge || *in.Age > entity.MaxAge) {
		return ErrInvalidAge
	}
	if in.Gender != nil && !in.Gender.IsValid() {
		return ErrInvalidGender
	}
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > entity.MaxBioLength {
		return ErrBioTooLong
	}
	for _, interest := range in.Interests {
		if !entity.IsValidInterest(interest) {
			return ErrInvalidInterests
		}
	}
	if l := in.Location; l != nil {
		if l.Longitude < -180 || l.Longitude > 180 || l.Latitude < -90 || l.Latitude > 90 {
			return ErrInvalidLocation
		}
	}
	if r := in.AgeRange; r != nil {
		if r.Min < entity.MinAge {
			return ErrMinAgePreference
		}
		if r.Max < r.Min {
			return ErrMaxAgePreference
		}
	}
	for _, g := range in.Genders {
		if !g.IsValid() {
			return ErrInvalidGenders
		}
	}
	if in.MaxDistance != nil && *in.MaxDistance <= 0 {
		return ErrInvalidDistance
	}
	return nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// UploadPicture stores data as the caller's profile picture and returns its URL.
func (u *profileUsecase) UploadPicture(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoPicture
	}
	if len(data) > MaxPictureSize {
		return "", ErrPictureTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if u.pictures == nil {
		return "", ErrUploadsDisabled
	}
	if _, err := u.users.FindByID(ctx, userID); err != nil {
		return "", err
	}
	if u.moderator != nil {
		if err := u.moderator.Check(ctx, data); err != nil {
			return "", err
		}
	}

	url, err := u.pictures.Put(ctx, u.newKey(userID, imageExtensions[contentType]), contentType, data)
	if err != nil {
		return "", fmt.Errorf("store picture: %w", err)
	}
	if err := u.users.SetProfilePicture(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
