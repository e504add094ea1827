package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartlink/internal/domain/entity"
)

// stubStore implements only what the decorator touches; anything else panics.
type stubStore struct {
	UserStore
	listCalls             int
	ListCandidatesFunc    func(ctx context.Context, excludeID string, limit int) ([]*entity.User, error)
	CreateFunc            func(ctx context.Context, u *entity.User) error
	UpdateProfileFunc     func(ctx context.Context, u *entity.User) error
	SetProfilePictureFunc func(ctx context.Context, id, url string) error
}

func (s *stubStore) ListCandidates(ctx context.Context, excludeID string, limit int) ([]*entity.User, error) {
	s.listCalls++
	if s.ListCandidatesFunc != nil {
		return s.ListCandidatesFunc(ctx, excludeID, limit)
	}
	return []*entity.User{{ID: "other", Name: "Bob"}}, nil
}

func (s *stubStore) Create(ctx context.Context, u *entity.User) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, u)
	}
	u.ID = "new"
	return nil
}

func (s *stubStore) UpdateProfile(ctx context.Context, u *entity.User) error {
	if s.UpdateProfileFunc != nil {
		return s.UpdateProfileFunc(ctx, u)
	}
	return nil
}

func (s *stubStore) SetProfilePicture(ctx context.Context, id, url string) error {
	if s.SetProfilePictureFunc != nil {
		return s.SetProfilePictureFunc(ctx, id, url)
	}
	return nil
}

func TestNewCachingUserRepository_Defaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultCandidateTTL, NewCachingUserRepository(nil, 0, &stubStore{}).ttl)
	assert.Equal(t, DefaultCandidateTTL, NewCachingUserRepository(nil, -time.Second, &stubStore{}).ttl)
	assert.Equal(t, 5*time.Minute, NewCachingUserRepository(nil, 5*time.Minute, &stubStore{}).ttl)
}

func TestCachingUserRepository_BypassWithoutRedis(t *testing.T) {
	t.Parallel()

	inner := &stubStore{}
	repo := NewCachingUserRepository(nil, time.Minute, inner)

	for i := 0; i < 2; i++ {
		got, err := repo.ListCandidates(context.Background(), "me", 20)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 2, inner.listCalls)
	require.NoError(t, repo.UpdateProfile(context.Background(), &entity.User{ID: "me"}))
}

func TestCachingUserRepository_ListCandidates(t *testing.T) {
	t.Parallel()

	users := []*entity.User{{ID: "other", Name: "Bob"}}
	payload, err := json.Marshal(toCached(users))
	require.NoError(t, err)
	key := candidatesKey("me", 20)

	t.Run("miss stores result", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		inner := &stubStore{}
		repo := NewCachingUserRepository(db, time.Minute, inner)

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

		got, err := repo.ListCandidates(context.Background(), "me", 20)
		require.NoError(t, err)
		assert.Equal(t, users, got)
		assert.Equal(t, 1, inner.listCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit skips the store", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		inner := &stubStore{}
		repo := NewCachingUserRepository(db, time.Minute, inner)

		mock.ExpectGet(key).SetVal(string(payload))

		got, err := repo.ListCandidates(context.Background(), "me", 20)
		require.NoError(t, err)
		assert.Equal(t, "Bob", got[0].Name)
		assert.Zero(t, inner.listCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupted entry is dropped", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		inner := &stubStore{}
		repo := NewCachingUserRepository(db, time.Minute, inner)

		mock.ExpectGet(key).SetVal("{not json")
		mock.ExpectDel(key).SetVal(1)
		mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

		_, err := repo.ListCandidates(context.Background(), "me", 20)
		require.NoError(t, err)
		assert.Equal(t, 1, inner.listCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis down falls back to the store", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		inner := &stubStore{}
		repo := NewCachingUserRepository(db, time.Minute, inner)

		mock.ExpectGet(key).SetErr(errors.New("connection refused"))
		mock.ExpectSet(key, payload, time.Minute).SetErr(errors.New("connection refused"))

		got, err := repo.ListCandidates(context.Background(), "me", 20)
		require.NoError(t, err)
		assert.Equal(t, users, got)
	})

	t.Run("store error is returned and not cached", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		boom := errors.New("store down")
		repo := NewCachingUserRepository(db, time.Minute, &stubStore{
			ListCandidatesFunc: func(ctx context.Context, excludeID string, limit int) ([]*entity.User, error) {
				return nil, boom
			},
		})

		mock.ExpectGet(key).RedisNil()

		_, err := repo.ListCandidates(context.Background(), "me", 20)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCachingUserRepository_WritesInvalidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		write func(repo *CachingUserRepository) error
	}{
		{"create", func(repo *CachingUserRepository) error {
			return repo.Create(context.Background(), &entity.User{Email: "x@example.com"})
		}},
		{"update profile", func(repo *CachingUserRepository) error {
			return repo.UpdateProfile(context.Background(), &entity.User{ID: "me"})
		}},
		{"set picture", func(repo *CachingUserRepository) error {
			return repo.SetProfilePicture(context.Background(), "me", "https://cdn.example/p.png")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock := redismock.NewClientMock()
			repo := NewCachingUserRepository(db, time.Minute, &stubStore{})

			mock.ExpectScan(0, "candidates:*", scanBatch).SetVal([]string{"candidates:a:20", "candidates:b:20"}, 0)
			mock.ExpectDel("candidates:a:20", "candidates:b:20").SetVal(2)

			require.NoError(t, tt.write(repo))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCachingUserRepository_FailedWriteKeepsCache(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	boom := errors.New("write failed")
	repo := NewCachingUserRepository(db, time.Minute, &stubStore{
		UpdateProfileFunc: func(ctx context.Context, u *entity.User) error { return boom },
	})

	err := repo.UpdateProfile(context.Background(), &entity.User{ID: "me"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingUserRepository_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	inner := &stubStore{}
	repo := NewCachingUserRepository(rdb, time.Minute, inner)

	_, err := repo.ListCandidates(ctx, "me", 20)
	require.NoError(t, err)
	_, err = repo.ListCandidates(ctx, "me", 20)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
	assert.True(t, mr.Exists(candidatesKey("me", 20)))

	mr.FastForward(2 * time.Minute)
	_, err = repo.ListCandidates(ctx, "me", 20)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls, "expired entries are reloaded")

	require.NoError(t, repo.SetProfilePicture(ctx, "other", "https://cdn.example/p.png"))
	assert.False(t, mr.Exists(candidatesKey("me", 20)))
}

func TestCachingUserRepository_CachesNoContactDetails(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	inner := &stubStore{
		ListCandidatesFunc: func(ctx context.Context, excludeID string, limit int) ([]*entity.User, error) {
			return []*entity.User{{
				ID:                "other",
				Email:             "bob@example.com",
				Password:          "$2a$10$hash",
				VerificationToken: "tok",
				Name:              "Bob",
				Age:               30,
				Gender:            entity.GenderMale,
				Interests:         []string{"music"},
				CreatedAt:         created,
			}}, nil
		},
	}
	repo := NewCachingUserRepository(rdb, time.Minute, inner)

	_, err := repo.ListCandidates(ctx, "me", 20)
	require.NoError(t, err)

	raw, err := mr.Get(candidatesKey("me", 20))
	require.NoError(t, err)
	assert.NotContains(t, raw, "bob@example.com")
	assert.NotContains(t, raw, "$2a$10$hash")
	assert.NotContains(t, raw, "tok")

	got, err := repo.ListCandidates(ctx, "me", 20)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Name)
	assert.Equal(t, 30, got[0].Age)
	assert.Equal(t, []string{"music"}, got[0].Interests)
	assert.True(t, created.Equal(got[0].CreatedAt))
	assert.Empty(t, got[0].Email)
}
