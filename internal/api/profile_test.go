package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartlink/internal/domain/entity"
)

func TestProfiles_StripSensitiveFields(t *testing.T) {
	t.Parallel()

	u := &entity.User{
		ID:                 "65f0c0ffee0000000000abcd",
		Email:              "ana@example.com",
		Password:           "$2a$10$hash",
		VerificationToken:  "verify-token",
		ResetPasswordToken: "reset-token",
		Name:               "Ana",
		Age:                29,
		Location:           entity.GeoPoint{Longitude: -3.7, Latitude: 40.4},
		Preferences:        entity.DefaultPreferences(),
	}

	public, err := json.Marshal(NewPublicProfile(u))
	require.NoError(t, err)
	own, err := json.Marshal(NewOwnProfile(u))
	require.NoError(t, err)

	for _, body := range []string{string(public), string(own)} {
		assert.NotContains(t, body, "$2a$10$hash")
		assert.NotContains(t, body, "verify-token")
		assert.NotContains(t, body, "reset-token")
	}
	assert.NotContains(t, string(public), "ana@example.com")
	assert.Contains(t, string(own), "ana@example.com")
	assert.Contains(t, string(public), `"coordinates":[-3.7,40.4]`)
	assert.Contains(t, string(public), `"interests":[]`)
}
