package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/rulebound/adventure/pkg/state"
)

// Storage persists game state snapshots. Implementations must round-trip a
// GameState exactly: save then load yields an identical snapshot.
type Storage interface {
	// Ping tests the storage connection.
	Ping(ctx context.Context) error

	// Close closes the storage connection.
	Close() error

	// SaveGameState saves a snapshot under its session ID.
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error

	// LoadGameState retrieves a snapshot by session ID.
	// Returns nil, nil if no snapshot exists.
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)

	// DeleteGameState removes a snapshot by session ID.
	DeleteGameState(ctx context.Context, id uuid.UUID) error
}

// SlotStorage is implemented by backends that also support named save
// slots, for the classic save and load commands.
type SlotStorage interface {
	Storage

	// SaveSlot writes a snapshot under a named slot.
	SaveSlot(ctx context.Context, slot string, gs *state.GameState) error

	// LoadSlot reads a snapshot from a named slot.
	// Returns nil, nil if the slot is empty.
	LoadSlot(ctx context.Context, slot string) (*state.GameState, error)
}
