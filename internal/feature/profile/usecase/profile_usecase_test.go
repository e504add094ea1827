package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	"heartlink/internal/shared/apperr"
)

type mockUserRepository struct {
	FindByIDFunc          func(ctx context.Context, id string) (*entity.User, error)
	UpdateProfileFunc     func(ctx context.Context, u *entity.User) error
	SetProfilePictureFunc func(ctx context.Context, id, url string) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) SetProfilePicture(ctx context.Context, id, url string) error {
	if m.SetProfilePictureFunc != nil {
		return m.SetProfilePictureFunc(ctx, id, url)
	}
	return nil
}

type mockPictureStore struct {
	PutFunc func(ctx context.Context, key, contentType string, data []byte) (string, error)
}

func (m *mockPictureStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, contentType, data)
	}
	return "https://cdn.example/" + key, nil
}

type mockModerator struct {
	CheckFunc func(ctx context.Context, data []byte) error
}

func (m *mockModerator) Check(ctx context.Context, data []byte) error {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, data)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func userRepoWith(u *entity.User) *mockUserRepository {
	return &mockUserRepository{FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
		if id != u.ID {
			return nil, domain.ErrUserNotFound
		}
		cp := *u
		return &cp, nil
	}}
}

func TestProfileUsecase_CreateProfile(t *testing.T) {
	t.Parallel()

	fresh := &entity.User{ID: "u1", Email: "a@example.com", Preferences: entity.DefaultPreferences()}
	existing := &entity.User{ID: "u2", Name: "Ana", Age: 30}

	t.Run("fills profile", func(t *testing.T) {
		t.Parallel()

		var saved *entity.User
		repo := userRepoWith(fresh)
		repo.UpdateProfileFunc = func(ctx context.Context, u *entity.User) error {
			saved = u
			return nil
		}

		got, err := NewProfileUsecase(repo, nil, nil).CreateProfile(context.Background(), "u1", entity.ProfileUpdate{
			Name:      ptr("Ana"),
			Age:       ptr(29),
			Gender:    ptr(entity.GenderFemale),
			Interests: []string{"music", "art"},
			Location:  &entity.GeoPoint{Longitude: 2.35, Latitude: 48.85},
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, 29, got.Age)
		assert.Same(t, got, saved)
		assert.Equal(t, entity.DefaultPreferences(), got.Preferences, "omitted preferences keep defaults")
	})

	t.Run("already exists", func(t *testing.T) {
		t.Parallel()

		_, err := NewProfileUsecase(userRepoWith(existing), nil, nil).CreateProfile(context.Background(), "u2", entity.ProfileUpdate{
			Name: ptr("X"), Age: ptr(20),
		})
		assert.ErrorIs(t, err, ErrProfileExists)
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		_, err := NewProfileUsecase(userRepoWith(fresh), nil, nil).CreateProfile(context.Background(), "ghost", entity.ProfileUpdate{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("name and age required", func(t *testing.T) {
		t.Parallel()

		_, err := NewProfileUsecase(userRepoWith(fresh), nil, nil).CreateProfile(context.Background(), "u1", entity.ProfileUpdate{Bio: ptr("hi")})
		assert.ErrorIs(t, err, ErrNameAgeMissing)
	})
}

func TestProfileUsecase_UpdateProfile(t *testing.T) {
	t.Parallel()

	existing := &entity.User{ID: "u1", Name: "Ana", Age: 30, Bio: "old", Interests: []string{"art"}, Preferences: entity.DefaultPreferences()}

	t.Run("changes only provided fields", func(t *testing.T) {
		t.Parallel()

		got, err := NewProfileUsecase(userRepoWith(existing), nil, nil).UpdateProfile(context.Background(), "u1", entity.ProfileUpdate{
			Bio:      ptr("new"),
			AgeRange: &entity.AgeRange{Min: 25, Max: 40},
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, 30, got.Age)
		assert.Equal(t, []string{"art"}, got.Interests)
		assert.Equal(t, "new", got.Bio)
		assert.Equal(t, entity.AgeRange{Min: 25, Max: 40}, got.Preferences.AgeRange)
	})

	t.Run("profile missing", func(t *testing.T) {
		t.Parallel()

		blank := &entity.User{ID: "u9"}
		_, err := NewProfileUsecase(userRepoWith(blank), nil, nil).UpdateProfile(context.Background(), "u9", entity.ProfileUpdate{Bio: ptr("x")})
		assert.ErrorIs(t, err, ErrProfileMissing)
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		repo := userRepoWith(existing)
		repo.UpdateProfileFunc = func(ctx context.Context, u *entity.User) error { return errors.New("write conflict") }
		_, err := NewProfileUsecase(repo, nil, nil).UpdateProfile(context.Background(), "u1", entity.ProfileUpdate{Bio: ptr("x")})
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      entity.ProfileUpdate
		wantErr error
	}{
		{"empty update", entity.ProfileUpdate{}, nil},
		{"blank name", entity.ProfileUpdate{Name: ptr("  ")}, ErrInvalidName},
		{"age below 18", entity.ProfileUpdate{Age: ptr(17)}, ErrInvalidAge},
		{"age above 100", entity.ProfileUpdate{Age: ptr(101)}, ErrInvalidAge},
		{"age bounds inclusive", entity.ProfileUpdate{Age: ptr(18)}, nil},
		{"bad gender", entity.ProfileUpdate{Gender: ptr(entity.Gender("robot"))}, ErrInvalidGender},
		{"long bio", entity.ProfileUpdate{Bio: ptr(strings.Repeat("a", 501))}, ErrBioTooLong},
		{"bio at limit", entity.ProfileUpdate{Bio: ptr(strings.Repeat("a", 500))}, nil},
		{"unknown interest", entity.ProfileUpdate{Interests: []string{"music", "knitting"}}, ErrInvalidInterests},
		{"bad latitude", entity.ProfileUpdate{Location: &entity.GeoPoint{Longitude: 0, Latitude: 91}}, ErrInvalidLocation},
		{"min preference below 18", entity.ProfileUpdate{AgeRange: &entity.AgeRange{Min: 16, Max: 30}}, ErrMinAgePreference},
		{"max below min", entity.ProfileUpdate{AgeRange: &entity.AgeRange{Min: 30, Max: 25}}, ErrMaxAgePreference},
		{"equal range", entity.ProfileUpdate{AgeRange: &entity.AgeRange{Min: 30, Max: 30}}, nil},
		{"bad gender preference", entity.ProfileUpdate{Genders: []entity.Gender{"male", "x"}}, ErrInvalidGenders},
		{"zero distance", entity.ProfileUpdate{MaxDistance: ptr(0)}, ErrInvalidDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProfileUsecase_UploadPicture(t *testing.T) {
	t.Parallel()

	user := &entity.User{ID: "u1", Name: "Ana", Age: 30}
	png := []byte("\x89PNG\r\n\x1a\nfake")

	t.Run("stores and saves url", func(t *testing.T) {
		t.Parallel()

		var gotKey, savedURL string
		repo := userRepoWith(user)
		repo.SetProfilePictureFunc = func(ctx context.Context, id, url string) error {
			savedURL = url
			return nil
		}
		store := &mockPictureStore{PutFunc: func(ctx context.Context, key, contentType string, data []byte) (string, error) {
			gotKey = key
			assert.Equal(t, "image/png", contentType)
			return "https://cdn.example/" + key, nil
		}}
		uc := NewProfileUsecase(repo, store, &mockModerator{})
		uc.newKey = func(userID, ext string) string { return "profile_pictures/" + userID + "/fixed" + ext }

		url, err := uc.UploadPicture(context.Background(), "u1", "image/png", png)
		require.NoError(t, err)
		assert.Equal(t, "profile_pictures/u1/fixed.png", gotKey)
		assert.Equal(t, "https://cdn.example/profile_pictures/u1/fixed.png", url)
		assert.Equal(t, url, savedURL)
	})

	t.Run("default key layout", func(t *testing.T) {
		t.Parallel()

		var gotKey string
		store := &mockPictureStore{PutFunc: func(ctx context.Context, key, contentType string, data []byte) (string, error) {
			gotKey = key
			return "u", nil
		}}
		_, err := NewProfileUsecase(userRepoWith(user), store, nil).UploadPicture(context.Background(), "u1", "image/jpeg", png)
		require.NoError(t, err)
		assert.Regexp(t, `^profile_pictures/u1/[0-9a-f-]{36}\.jpg$`, gotKey)
	})

	tests := []struct {
		name        string
		contentType string
		data        []byte
		moderator   PictureModerator
		store       PictureStore
		wantErr     error
	}{
		{"empty file", "image/png", nil, nil, &mockPictureStore{}, ErrNoPicture},
		{"too large", "image/png", make([]byte, MaxPictureSize+1), nil, &mockPictureStore{}, ErrPictureTooLarge},
		{"not an image", "application/pdf", []byte("%PDF"), nil, &mockPictureStore{}, ErrNotAnImage},
		{"moderation rejects", "image/png", png, &mockModerator{CheckFunc: func(ctx context.Context, data []byte) error {
			return ErrPictureRejected
		}}, &mockPictureStore{}, ErrPictureRejected},
		{"uploads disabled", "image/png", png, nil, nil, ErrUploadsDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewProfileUsecase(userRepoWith(user), tt.store, tt.moderator).UploadPicture(context.Background(), "u1", tt.contentType, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
