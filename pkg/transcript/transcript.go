// Package transcript keeps an append-only JSONL log of completed turns.
// The engine only ever writes; nothing in the game reads it back.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rulebound/adventure/pkg/state"
)

// Entry is one logged turn: the command, the narration, the proposed state
// delta, and the state after apply.
type Entry struct {
	Command     string           `json:"command"`
	Narration   string           `json:"narration"`
	StateChange []string         `json:"state_change,omitempty"`
	Rejected    bool             `json:"rejected,omitempty"` // Delta failed validation and was discarded
	State       *state.GameState `json:"state,omitempty"`
}

// Writer appends entries to a JSONL file, one object per line.
type Writer struct {
	f   *os.File
	enc *json.Encoder
}

// New opens (or creates) the transcript file for appending.
func New(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create transcript dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	return &Writer{f: f, enc: json.NewEncoder(f)}, nil
}

// Append writes one entry. The state snapshot is shallow; callers must not
// mutate it concurrently (the engine is turn-synchronous, so they don't).
func (w *Writer) Append(e Entry) error {
	if err := w.enc.Encode(e); err != nil {
		return fmt.Errorf("failed to append transcript entry: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.f.Close()
}
