package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rulebound/adventure/pkg/state"
)

// FileStorage implements Storage over a directory of JSON save files, one
// per session. It also supports named save slots for the classic save/load
// commands. Writes go through a temp file and rename so a crash mid-write
// never corrupts an existing save.
type FileStorage struct {
	dir string
}

var _ SlotStorage = (*FileStorage)(nil)

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.dir); err != nil {
		return fmt.Errorf("save dir unavailable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

func (f *FileStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	return f.write(id.String()+".json", gs)
}

func (f *FileStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	return f.read(id.String() + ".json")
}

func (f *FileStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	err := os.Remove(filepath.Join(f.dir, id.String()+".json"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// SaveSlot writes a snapshot under a named slot (e.g. "save").
func (f *FileStorage) SaveSlot(ctx context.Context, slot string, gs *state.GameState) error {
	return f.write(slot+".json", gs)
}

// LoadSlot reads a snapshot from a named slot.
// Returns nil, nil if the slot is empty.
func (f *FileStorage) LoadSlot(ctx context.Context, slot string) (*state.GameState, error) {
	return f.read(slot + ".json")
}

func (f *FileStorage) write(name string, gs *state.GameState) error {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	path := filepath.Join(f.dir, name)
	tmp, err := os.CreateTemp(f.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp save: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize save: %w", err)
	}
	return nil
}

func (f *FileStorage) read(name string) (*state.GameState, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read save: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save: %w", err)
	}
	return &gs, nil
}
