package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"heartlink/internal/domain/entity"
	"heartlink/internal/platform/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.Migrate(gdb, &MessageModel{}))
	return gdb
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func send(t *testing.T, repo *messageGorm, matchID, from, to, content string) *entity.Message {
	t.Helper()
	m := &entity.Message{MatchID: matchID, SenderID: from, ReceiverID: to, Content: content}
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func newRepo(t *testing.T) *messageGorm {
	repo := NewMessageGorm(setupTestDB(t))
	repo.now = steppingClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	return repo
}

func TestMessageGorm_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	match, ana, ben := entity.NewID(), entity.NewID(), entity.NewID()

	first := send(t, repo, match, ana, ben, "hi")
	second := send(t, repo, match, ben, ana, "hello")
	send(t, repo, entity.NewID(), ana, ben, "other thread")

	assert.True(t, entity.IsValidID(first.ID))
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	got, err := repo.ListByMatch(ctx, match)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hi", got[0].Content)
	assert.Equal(t, "hello", got[1].Content)
	assert.False(t, got[0].IsRead)
}

func TestMessageGorm_UnreadAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	m1, m2, ana, ben, cleo := entity.NewID(), entity.NewID(), entity.NewID(), entity.NewID(), entity.NewID()

	send(t, repo, m1, ben, ana, "one")
	send(t, repo, m1, ben, ana, "two")
	send(t, repo, m1, ana, ben, "reply")
	send(t, repo, m2, cleo, ana, "hey")

	n, err := repo.CountUnread(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	per, err := repo.UnreadByMatch(ctx, []string{m1, m2}, ana)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{m1: 2, m2: 1}, per)

	marked, err := repo.MarkRead(ctx, m1, ana)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	n, err = repo.CountUnread(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountUnread(ctx, ben)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "marking ana's messages leaves ben's unread")
}

func TestMessageGorm_LatestByMatch(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	m1, m2, empty, ana, ben := entity.NewID(), entity.NewID(), entity.NewID(), entity.NewID(), entity.NewID()

	send(t, repo, m1, ana, ben, "old")
	send(t, repo, m2, ben, ana, "only")
	send(t, repo, m1, ben, ana, "newest")

	got, err := repo.LatestByMatch(ctx, []string{m1, m2, empty})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newest", got[m1].Content)
	assert.Equal(t, "only", got[m2].Content)
	assert.NotContains(t, got, empty)

	none, err := repo.LatestByMatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
