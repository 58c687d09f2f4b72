package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rulebound/adventure/pkg/chat"
	"github.com/rulebound/adventure/pkg/rules"
	"github.com/rulebound/adventure/pkg/state"
)

// currentState is the compact state view embedded in each prompt. Chat
// history is sent separately, so it is stripped here to keep tokens down.
type currentState struct {
	Location  string          `json:"location"`
	Inventory []string        `json:"inventory,omitempty"`
	Flags     map[string]bool `json:"flags,omitempty"`
	HP        int             `json:"hp"`
	MaxHP     int             `json:"max_hp"`
	Turn      int             `json:"turn"`
}

// BuildTurnPrompt assembles the full message list for one turn: the GM
// system prompt plus a user message carrying the rules, the current state,
// the recent history window, and the player's command.
func BuildTurnPrompt(rs *rules.RuleSet, gs *state.GameState, playerCmd string) ([]chat.ChatMessage, error) {
	rulesJSON, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rules: %w", err)
	}

	stateJSON, err := json.Marshal(currentState{
		Location:  gs.Location,
		Inventory: gs.Inventory,
		Flags:     gs.Flags,
		HP:        gs.HP,
		MaxHP:     gs.MaxHP,
		Turn:      gs.Turn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	historyJSON, err := json.Marshal(gs.RecentHistory())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	var b strings.Builder
	b.WriteString("RULES_JSON: ")
	b.Write(rulesJSON)
	b.WriteString("\nCURRENT_STATE: ")
	b.Write(stateJSON)
	b.WriteString("\nRECENT_HISTORY: ")
	b.Write(historyJSON)
	b.WriteString("\nPLAYER_COMMAND: ")
	b.WriteString(playerCmd)

	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: GMSystemPrompt},
		{Role: chat.ChatRoleUser, Content: b.String()},
	}, nil
}
