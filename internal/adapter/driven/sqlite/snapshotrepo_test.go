package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepo_SaveAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	err := repo.Save(ctx, "social-hub-apis", []byte(`{"apis":[]}`))
	require.NoError(t, err)

	data, err := repo.Load(ctx, "social-hub-apis")
	require.NoError(t, err)
	assert.Equal(t, `{"apis":[]}`, string(data))
}

func TestSnapshotRepo_LoadMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)

	data, err := repo.Load(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSnapshotRepo_SaveOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "blob", []byte("old")))
	require.NoError(t, repo.Save(ctx, "blob", []byte("new")))

	data, err := repo.Load(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestSnapshotRepo_NamesAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a", []byte("first")))
	require.NoError(t, repo.Save(ctx, "b", []byte("second")))

	a, err := repo.Load(ctx, "a")
	require.NoError(t, err)
	b, err := repo.Load(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, "first", string(a))
	assert.Equal(t, "second", string(b))
}

func TestSnapshotRepo_SaveEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "empty", nil))

	data, err := repo.Load(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, data)
}
