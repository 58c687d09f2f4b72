package chat

import (
	"testing"
)

func TestParseGMResponse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantNarration string
		wantChanges   []string
		wantFallback  bool
	}{
		{
			name:          "clean json",
			raw:           `{"narration": "You enter the cellar.", "state_change": ["move_to: cellar"]}`,
			wantNarration: "You enter the cellar.",
			wantChanges:   []string{"move_to: cellar"},
		},
		{
			name:          "json wrapped in prose",
			raw:           "Sure! Here is the response:\n{\"narration\": \"A key glints.\", \"state_change\": [\"add_item: rusty_key\"]}\nHope that helps.",
			wantNarration: "A key glints.",
			wantChanges:   []string{"add_item: rusty_key"},
		},
		{
			name:          "json in code fence",
			raw:           "```json\n{\"narration\": \"Nothing stirs.\", \"state_change\": []}\n```",
			wantNarration: "Nothing stirs.",
			wantChanges:   []string{},
		},
		{
			name:          "narration as paragraph list",
			raw:           `{"narration": ["The door creaks.", "Dust falls."], "state_change": []}`,
			wantNarration: "The door creaks.\nDust falls.",
			wantChanges:   []string{},
		},
		{
			name:         "no json at all",
			raw:          "I cannot answer that.",
			wantFallback: true,
		},
		{
			name:         "malformed json",
			raw:          `{"narration": "broken`,
			wantFallback: true,
		},
		{
			name:         "empty input",
			raw:          "",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ParseGMResponse(tt.raw)
			if resp == nil {
				t.Fatal("ParseGMResponse returned nil")
			}

			if tt.wantFallback {
				if len(resp.StateChange) != 0 {
					t.Errorf("fallback response should carry no state changes, got %v", resp.StateChange)
				}
				if resp.Narration == "" {
					t.Error("fallback response should carry a narration")
				}
				return
			}

			if resp.Narration.String() != tt.wantNarration {
				t.Errorf("narration = %q, want %q", resp.Narration, tt.wantNarration)
			}
			if len(resp.StateChange) != len(tt.wantChanges) {
				t.Fatalf("state_change = %v, want %v", resp.StateChange, tt.wantChanges)
			}
			for i := range tt.wantChanges {
				if resp.StateChange[i] != tt.wantChanges[i] {
					t.Errorf("state_change[%d] = %q, want %q", i, resp.StateChange[i], tt.wantChanges[i])
				}
			}
		})
	}
}

func TestParseGMResponse_ExtraKeysIgnored(t *testing.T) {
	resp := ParseGMResponse(`{"narration": "Onward.", "state_change": [], "mood": "tense"}`)
	if resp.Narration != "Onward." {
		t.Errorf("narration = %q, want %q", resp.Narration, "Onward.")
	}
}
