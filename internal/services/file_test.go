package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Ping(ctx))

	gs := sampleGameState()
	require.NoError(t, storage.SaveGameState(ctx, gs.ID, gs))

	loaded, err := storage.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, gs, loaded, "save then load must be identity")
}

func TestFileStorage_LoadMissing(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	loaded, err := storage.LoadGameState(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStorage_Delete(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	gs := sampleGameState()
	require.NoError(t, storage.SaveGameState(ctx, gs.ID, gs))
	require.NoError(t, storage.DeleteGameState(ctx, gs.ID))

	loaded, err := storage.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting a missing save is not an error.
	require.NoError(t, storage.DeleteGameState(ctx, gs.ID))
}

func TestFileStorage_Slots(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	empty, err := storage.LoadSlot(ctx, "save")
	require.NoError(t, err)
	assert.Nil(t, empty, "empty slot should load as nil")

	gs := sampleGameState()
	require.NoError(t, storage.SaveSlot(ctx, "save", gs))

	loaded, err := storage.LoadSlot(ctx, "save")
	require.NoError(t, err)
	assert.Equal(t, gs, loaded)
}

func TestFileStorage_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	gs := sampleGameState()
	require.NoError(t, storage.SaveGameState(context.Background(), gs.ID, gs))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestFileStorage_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	_, err := NewFileStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
