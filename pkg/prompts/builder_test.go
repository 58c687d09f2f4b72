package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rulebound/adventure/pkg/chat"
	"github.com/rulebound/adventure/pkg/rules"
	"github.com/rulebound/adventure/pkg/state"
)

func promptRules() *rules.RuleSet {
	return &rules.RuleSet{
		Name: "Prompt Test",
		Locations: map[string]rules.Location{
			"cell": {Name: "Damp Cell", Exits: map[string]string{"out": "hall"}},
			"hall": {Name: "Hall"},
		},
		Items:  map[string]rules.Item{"shiv": {Name: "Shiv", Portable: true}},
		Start:  rules.Start{Location: "cell"},
		Player: rules.Player{MaxHP: 8},
	}
}

func TestBuildTurnPrompt(t *testing.T) {
	rs := promptRules()
	gs := state.NewGameState(rs)
	gs.AppendHistory("rattle the bars", &chat.GMResponse{Narration: "They hold."})

	msgs, err := BuildTurnPrompt(rs, gs, "search the straw")
	if err != nil {
		t.Fatalf("BuildTurnPrompt failed: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Role != chat.ChatRoleSystem || msgs[0].Content != GMSystemPrompt {
		t.Error("first message should be the GM system prompt")
	}
	if msgs[1].Role != chat.ChatRoleUser {
		t.Errorf("second message role = %q", msgs[1].Role)
	}

	body := msgs[1].Content
	for _, section := range []string{"RULES_JSON:", "CURRENT_STATE:", "RECENT_HISTORY:", "PLAYER_COMMAND: search the straw"} {
		if !strings.Contains(body, section) {
			t.Errorf("prompt missing section %q", section)
		}
	}
	if !strings.Contains(body, `"Damp Cell"`) {
		t.Error("prompt should embed the rule catalog")
	}
	if !strings.Contains(body, `"location":"cell"`) {
		t.Error("prompt should embed the current location")
	}
	if !strings.Contains(body, "rattle the bars") {
		t.Error("prompt should embed recent history")
	}
}

func TestBuildTurnPrompt_HistoryWindowBounded(t *testing.T) {
	rs := promptRules()
	gs := state.NewGameState(rs)
	for i := 0; i < state.HistoryWindow+5; i++ {
		gs.AppendHistory(fmt.Sprintf("turn-%d", i), &chat.GMResponse{})
	}

	msgs, err := BuildTurnPrompt(rs, gs, "wait")
	if err != nil {
		t.Fatalf("BuildTurnPrompt failed: %v", err)
	}

	body := msgs[1].Content
	if strings.Contains(body, `"turn-0"`) {
		t.Error("oldest exchanges should be outside the prompt window")
	}
	if !strings.Contains(body, fmt.Sprintf("turn-%d", state.HistoryWindow+4)) {
		t.Error("newest exchange should be in the prompt window")
	}
}
