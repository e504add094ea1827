package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"heartlink/internal/domain/entity"
	authadapters "heartlink/internal/feature/auth/adapters"
	"heartlink/internal/platform/db"
)

func TestParseFixture_Embedded(t *testing.T) {
	f, err := parseFixture(defaultFixture)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Users)
	for _, u := range f.Users {
		assert.NotEmpty(t, u.Email)
	}
}

func TestParseFixture_Invalid(t *testing.T) {
	_, err := parseFixture([]byte("password: short\nusers: []\n"))
	assert.Error(t, err)

	_, err = parseFixture([]byte("users: [\n"))
	assert.Error(t, err)
}

func TestSeed_Idempotent(t *testing.T) {
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, &authadapters.UserModel{}))
	users := authadapters.NewUserGorm(gdb)
	ctx := context.Background()

	f, err := parseFixture(defaultFixture)
	require.NoError(t, err)

	n, err := seed(ctx, users, f, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, len(f.Users), n)

	n, err = seed(ctx, users, f, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Zero(t, n)

	u, err := users.FindByEmail(ctx, f.Users[0].Email)
	require.NoError(t, err)
	assert.True(t, u.IsEmailVerified)
	assert.True(t, u.HasProfile())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(f.Password)))
}

func TestSeed_RejectsInvalidProfile(t *testing.T) {
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, &authadapters.UserModel{}))
	users := authadapters.NewUserGorm(gdb)

	f := &fixture{
		Password: "password123",
		Users:    []fixtureUser{{Email: "kid@example.com", Name: "Kid", Age: 12, Gender: string(entity.GenderMale)}},
	}
	n, err := seed(context.Background(), users, f, bcrypt.MinCost)
	assert.Error(t, err)
	assert.Zero(t, n)
}
