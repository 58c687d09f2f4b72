package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/rulebound/adventure/pkg/state"
)

// MockStorage is an in-memory Storage for tests. Snapshots are kept as
// marshaled JSON so tests exercise the same round-trip as real backends.
type MockStorage struct {
	data map[uuid.UUID][]byte

	PingErr error
	SaveErr error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{data: make(map[uuid.UUID][]byte)}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}
	m.data[id] = data
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	data, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	delete(m.data, id)
	return nil
}
