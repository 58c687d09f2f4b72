package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulebound/adventure/pkg/chat"
	"github.com/rulebound/adventure/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupRedisStorage(t *testing.T) *RedisStorage {
	t.Helper()

	mr := miniredis.RunT(t)
	rs := NewRedisStorage(mr.Addr(), testLogger())
	t.Cleanup(func() {
		_ = rs.Close()
	})
	return rs
}

func sampleGameState() *state.GameState {
	gs := &state.GameState{
		ID:        uuid.New(),
		RuleSet:   "Test Cove",
		Location:  "dock",
		Inventory: []string{"rope", "rusty_key"},
		Flags:     map[string]bool{"has_seen_door": true},
		HP:        7,
		MaxHP:     10,
		Turn:      12,
	}
	gs.AppendHistory("open door", &chat.GMResponse{
		Narration:   "It creaks open.",
		StateChange: []string{"set_flag: has_seen_door"},
	})
	return gs
}

func TestRedisStorage_RoundTrip(t *testing.T) {
	storage := setupRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Ping(ctx))

	gs := sampleGameState()
	require.NoError(t, storage.SaveGameState(ctx, gs.ID, gs))

	loaded, err := storage.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, gs, loaded, "save then load must be identity")
}

func TestRedisStorage_LoadMissing(t *testing.T) {
	storage := setupRedisStorage(t)

	loaded, err := storage.LoadGameState(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing snapshot should load as nil without error")
}

func TestRedisStorage_Delete(t *testing.T) {
	storage := setupRedisStorage(t)
	ctx := context.Background()

	gs := sampleGameState()
	require.NoError(t, storage.SaveGameState(ctx, gs.ID, gs))
	require.NoError(t, storage.DeleteGameState(ctx, gs.ID))

	loaded, err := storage.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_Overwrite(t *testing.T) {
	storage := setupRedisStorage(t)
	ctx := context.Background()

	gs := sampleGameState()
	require.NoError(t, storage.SaveGameState(ctx, gs.ID, gs))

	gs.Turn++
	gs.Location = "tavern"
	require.NoError(t, storage.SaveGameState(ctx, gs.ID, gs))

	loaded, err := storage.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, "tavern", loaded.Location)
	assert.Equal(t, 13, loaded.Turn)
}

func TestRedisStorage_PingFailure(t *testing.T) {
	rs := NewRedisStorage("localhost:1", testLogger())
	defer func() { _ = rs.Close() }()

	assert.Error(t, rs.Ping(context.Background()))
}
