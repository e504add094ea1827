package di

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartlink/internal/platform/config"
	"heartlink/internal/platform/db"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		Port:                "0",
		ClientURL:           "http://localhost:3000",
		JWTSecret:           strings.Repeat("s", 32),
		JWTExpiration:       time.Hour,
		StoreDriver:         config.StoreSQLite,
		SQLitePath:          ":memory:",
		NotificationWorkers: 1,
		NotificationQueue:   16,
	}
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, app.Close(ctx))
	})
	return app
}

type client struct {
	t     *testing.T
	r     http.Handler
	token string
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var rd *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

// signup registers, verifies and logs in a user with a filled profile.
func signup(t *testing.T, app *App, email, name string) (*client, string) {
	t.Helper()
	c := &client{t: t, r: app.Router}
	creds := map[string]string{"email": email, "password": "password123"}

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/auth/signup", creds, nil))

	var res struct {
		Message string `json:"message"`
	}
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/auth/login", creds, &res))
	assert.Equal(t, "Please verify your email first", res.Message)

	u, err := app.stores.Users.FindByEmail(context.Background(), strings.ToLower(email))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/auth/verify-email/"+u.VerificationToken, nil, nil))

	var login struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/auth/login", creds, &login))
	require.NotEmpty(t, login.Token)
	c.token = login.Token

	profile := map[string]any{"name": name, "age": 28, "gender": "female", "interests": []string{"music", "travel"}}
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/profile/me", profile, nil))
	return c, u.ID
}

func TestApp_MatchAndMessageFlow(t *testing.T) {
	app := newTestApp(t)
	alice, aliceID := signup(t, app, "alice@example.com", "Alice")
	bob, bobID := signup(t, app, "Bob@Example.com", "Bob")

	var candidates []struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
	}
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/api/match/potential", nil, &candidates))
	require.Len(t, candidates, 1)
	assert.Equal(t, bobID, candidates[0].ID)
	assert.Empty(t, candidates[0].Email)

	var decision struct {
		IsMatch bool `json:"isMatch"`
	}
	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/api/match/action",
		map[string]string{"targetUserId": bobID, "action": "like"}, &decision))
	assert.False(t, decision.IsMatch)
	require.Equal(t, http.StatusOK, bob.do(http.MethodPost, "/api/match/action",
		map[string]string{"targetUserId": aliceID, "action": "like"}, &decision))
	assert.True(t, decision.IsMatch)

	var matches []struct {
		MatchID string `json:"matchId"`
		User    struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/api/match", nil, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, bobID, matches[0].User.ID)
	assert.Equal(t, "Bob", matches[0].User.Name)
	matchID := matches[0].MatchID

	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/api/messages/send",
		map[string]string{"matchId": matchID, "content": "  hi Bob  "}, nil))

	var unread struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/messages/unread", nil, &unread))
	assert.EqualValues(t, 1, unread.UnreadCount)

	var convs []struct {
		MatchID       string `json:"matchId"`
		UnreadCount   int64  `json:"unreadCount"`
		LatestMessage struct {
			Content string `json:"content"`
		} `json:"latestMessage"`
	}
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/messages/conversations", nil, &convs))
	require.Len(t, convs, 1)
	assert.Equal(t, matchID, convs[0].MatchID)
	assert.EqualValues(t, 1, convs[0].UnreadCount)
	assert.Equal(t, "hi Bob", convs[0].LatestMessage.Content)

	var thread []struct {
		Content string `json:"content"`
		Sender  struct {
			ID string `json:"_id"`
		} `json:"sender"`
	}
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/messages/match/"+matchID, nil, &thread))
	require.Len(t, thread, 1)
	assert.Equal(t, aliceID, thread[0].Sender.ID)

	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/messages/unread", nil, &unread))
	assert.Zero(t, unread.UnreadCount)
}

func TestApp_PassDoesNotMatch(t *testing.T) {
	app := newTestApp(t)
	alice, aliceID := signup(t, app, "alice@example.com", "Alice")
	bob, bobID := signup(t, app, "bob@example.com", "Bob")

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/api/match/action",
		map[string]string{"targetUserId": bobID, "action": "pass"}, nil))
	require.Equal(t, http.StatusOK, bob.do(http.MethodPost, "/api/match/action",
		map[string]string{"targetUserId": aliceID, "action": "like"}, nil))

	var matches []json.RawMessage
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/match", nil, &matches))
	assert.Empty(t, matches)

	var errRes struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/api/messages/match/not-a-match", nil, &errRes))
	assert.Equal(t, "not_found", errRes.Code)
}

func TestApp_ReadyWithoutRedis(t *testing.T) {
	app := newTestApp(t)
	assert.Contains(t, app.stores.Pingers, "db")
	assert.NotContains(t, app.stores.Pingers, "redis")

	c := &client{t: t, r: app.Router}
	var ready struct {
		Checks map[string]string `json:"checks"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz", nil, &ready))
	assert.Equal(t, map[string]string{"db": "ok"}, ready.Checks)
}

func TestApp_PictureUploadWithoutBucket(t *testing.T) {
	app := newTestApp(t)
	c, _ := signup(t, app, "carol@example.com", "Carol")

	body := &strings.Builder{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("picture", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/me/picture", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostgresConfig(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "heartlink",
		DBPassword: "pw",
		DBName:     "heartlink",
		DBSSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal user=heartlink password=pw dbname=heartlink port=5433 sslmode=require TimeZone=UTC",
		db.BuildDSN(postgresConfig(cfg)))
}
