package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

func makePost(id string, scheduledAt time.Time) model.ScheduledPost {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return model.ScheduledPost{
		ID:          id,
		Title:       "Post " + id,
		Content:     "**launch** day",
		Platforms:   []model.Platform{model.PlatformTwitter, model.PlatformInstagram},
		ScheduledAt: scheduledAt,
		MediaURLs:   []string{"https://cdn.example.com/" + id + ".png"},
		Status:      model.PostStatusScheduled,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestPostRepo_InsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	want := makePost("p1", time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC))
	require.NoError(t, repo.Insert(ctx, want))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Content, got.Content)
	assert.Equal(t, want.Platforms, got.Platforms)
	assert.Equal(t, want.MediaURLs, got.MediaURLs)
	assert.Equal(t, model.PostStatusScheduled, got.Status)
	assert.True(t, want.ScheduledAt.Equal(got.ScheduledAt))
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestPostRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostRepo_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	post := makePost("p1", time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC))
	require.NoError(t, repo.Insert(ctx, post))

	post.Title = "Renamed"
	post.Status = model.PostStatusPosted
	post.Platforms = []model.Platform{model.PlatformYouTube}
	post.UpdatedAt = post.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, model.PostStatusPosted, got.Status)
	assert.Equal(t, []model.Platform{model.PlatformYouTube}, got.Platforms)
	assert.True(t, post.UpdatedAt.Equal(got.UpdatedAt))
}

func TestPostRepo_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)

	err := repo.Update(context.Background(), makePost("ghost", time.Now()))
	assert.ErrorIs(t, err, driven.ErrPostNotFound)
}

func TestPostRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, makePost("p1", time.Now())))
	require.NoError(t, repo.Delete(ctx, "p1"))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostRepo_DeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)

	err := repo.Delete(context.Background(), "nonexistent")
	assert.NoError(t, err, "deleting nonexistent post should not error")
}

func TestPostRepo_ListAllOrderedBySchedule(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, makePost("late", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.Insert(ctx, makePost("early", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.Insert(ctx, makePost("mid", time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "late", all[2].ID)
}

func TestPostRepo_ListBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, makePost("before", day.Add(-time.Nanosecond))))
	require.NoError(t, repo.Insert(ctx, makePost("start", day)))
	require.NoError(t, repo.Insert(ctx, makePost("evening", day.Add(20*time.Hour))))
	require.NoError(t, repo.Insert(ctx, makePost("next", day.Add(24*time.Hour))))

	got, err := repo.ListBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "start", got[0].ID)
	assert.Equal(t, "evening", got[1].ID)
}

func TestPostRepo_ListBetweenNormalizesZone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*60*60)
	// 2026-02-15 08:00 JST is 2026-02-14 23:00 UTC.
	require.NoError(t, repo.Insert(ctx, makePost("p1", time.Date(2026, 2, 15, 8, 0, 0, 0, tokyo))))

	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	got, err := repo.ListBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.UTC, got[0].ScheduledAt.Location())
}

func TestPostRepo_EmptyListsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	post := makePost("bare", time.Now())
	post.MediaURLs = nil
	require.NoError(t, repo.Insert(ctx, post))

	got, err := repo.GetByID(ctx, "bare")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.MediaURLs)
}
