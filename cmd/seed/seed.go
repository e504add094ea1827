package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	authusecase "heartlink/internal/feature/auth/usecase"
	profileusecase "heartlink/internal/feature/profile/usecase"
)

//go:embed fixtures/users.yaml
var defaultFixture []byte

type fixture struct {
	Password string        `yaml:"password"`
	Users    []fixtureUser `yaml:"users"`
}

type fixtureUser struct {
	Email     string     `yaml:"email"`
	Name      string     `yaml:"name"`
	Age       int        `yaml:"age"`
	Gender    string     `yaml:"gender"`
	Bio       string     `yaml:"bio"`
	Interests []string   `yaml:"interests"`
	Location  [2]float64 `yaml:"location"`
}

// userStore is the subset of the user store the seeder writes through.
type userStore interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

func parseFixture(data []byte) (*fixture, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Password) < 8 {
		return nil, errors.New("fixture password must be at least 8 characters")
	}
	return &f, nil
}

func (fu fixtureUser) profile() entity.ProfileUpdate {
	gender := entity.Gender(fu.Gender)
	return entity.ProfileUpdate{
		Name:      &fu.Name,
		Age:       &fu.Age,
		Gender:    &gender,
		Bio:       &fu.Bio,
		Interests: fu.Interests,
		Location:  &entity.GeoPoint{Longitude: fu.Location[0], Latitude: fu.Location[1]},
	}
}

// seed inserts every fixture user that does not exist yet and returns how many were created.
func seed(ctx context.Context, users userStore, f *fixture, hashCost int) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), hashCost)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, fu := range f.Users {
		email := authusecase.NormalizeEmail(fu.Email)
		_, err := users.FindByEmail(ctx, email)
		if err == nil {
			slog.Info("seed user exists, skipping", "email", email)
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return created, err
		}

		update := fu.profile()
		if err := profileusecase.Validate(update); err != nil {
			return created, fmt.Errorf("fixture %s: %w", email, err)
		}
		u := &entity.User{
			Email:           email,
			Password:        string(hash),
			IsEmailVerified: true,
			Preferences:     entity.DefaultPreferences(),
		}
		update.ApplyTo(u)
		if err := users.Create(ctx, u); err != nil {
			return created, fmt.Errorf("create %s: %w", email, err)
		}
		slog.Info("seed user created", "email", email, "user_id", u.ID)
		created++
	}
	return created, nil
}
