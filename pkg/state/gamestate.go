package state

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rulebound/adventure/pkg/chat"
	"github.com/rulebound/adventure/pkg/rules"
)

// HistoryWindow bounds how many recent exchanges are included in each prompt.
const HistoryWindow = 6

// HPZeroFlag is set when the player's hit points reach zero. Rule sets
// typically list it under lose_any_flags.
const HPZeroFlag = "hp_zero"

// GameState is the authoritative world snapshot for a game session.
// It is mutated only by the UpdateWorker.
type GameState struct {
	ID        uuid.UUID       `json:"id"`
	RuleSet   string          `json:"rule_set,omitempty"` // Name of the rule set this session runs on
	Location  string          `json:"location"`
	Inventory []string        `json:"inventory,omitempty"`
	Flags     map[string]bool `json:"flags,omitempty"`
	HP        int             `json:"hp"`
	MaxHP     int             `json:"max_hp"`
	Turn      int             `json:"turn"`
	IsEnded   bool            `json:"is_ended"`
	History   []chat.Exchange `json:"history,omitempty"`
}

// NewGameState seeds a fresh session from the rule set's start block.
func NewGameState(rs *rules.RuleSet) *GameState {
	maxHP := rs.Player.MaxHP
	if maxHP <= 0 {
		maxHP = 10
	}

	gs := &GameState{
		ID:        uuid.New(),
		RuleSet:   rs.Name,
		Location:  rs.Start.Location,
		Inventory: append([]string(nil), rs.Start.Inventory...),
		Flags:     make(map[string]bool, len(rs.Start.Flags)),
		HP:        maxHP,
		MaxHP:     maxHP,
		History:   make([]chat.Exchange, 0),
	}
	for k, v := range rs.Start.Flags {
		gs.Flags[k] = v
	}
	return gs
}

// RecentHistory returns the bounded window of exchanges for prompt building.
func (gs *GameState) RecentHistory() []chat.Exchange {
	if len(gs.History) <= HistoryWindow {
		return gs.History
	}
	return gs.History[len(gs.History)-HistoryWindow:]
}

// AppendHistory records a completed exchange.
func (gs *GameState) AppendHistory(playerCmd string, gm *chat.GMResponse) {
	gs.History = append(gs.History, chat.Exchange{Player: playerCmd, GM: gm})
}

// HasItem reports whether the item key is in the player's inventory.
func (gs *GameState) HasItem(key string) bool {
	for _, item := range gs.Inventory {
		if item == key {
			return true
		}
	}
	return false
}

// CheckInvariants verifies the structural invariants of the game state
// against the rule catalog: hp never negative, known location, cataloged
// singleton inventory. Used as a defensive double-check after every apply.
func (gs *GameState) CheckInvariants(rs *rules.RuleSet) error {
	if gs.HP < 0 {
		return &InvalidStateError{Reason: fmt.Sprintf("hp is negative (%d)", gs.HP)}
	}
	if gs.Turn < 0 {
		return &InvalidStateError{Reason: fmt.Sprintf("turn is negative (%d)", gs.Turn)}
	}
	if _, ok := rs.Locations[gs.Location]; !ok {
		return &InvalidStateError{Reason: fmt.Sprintf("location %q is not in the rule catalog", gs.Location)}
	}

	seen := make(map[string]bool, len(gs.Inventory))
	for _, item := range gs.Inventory {
		if _, ok := rs.Items[item]; !ok {
			return &InvalidStateError{Reason: fmt.Sprintf("inventory item %q is not in the rule catalog", item)}
		}
		if seen[item] {
			return &InvalidStateError{Reason: fmt.Sprintf("inventory item %q is duplicated", item)}
		}
		seen[item] = true
	}
	return nil
}

// Outcome describes how a session ended.
type Outcome struct {
	Won    bool   `json:"won"`
	Reason string `json:"reason"`
}

// EvaluateEnd checks the rule set's end conditions against the current
// state. Returns nil while the game is still running.
func (gs *GameState) EvaluateEnd(rs *rules.RuleSet) *Outcome {
	end := rs.EndConditions

	if len(end.WinAllFlags) > 0 {
		won := true
		for _, f := range end.WinAllFlags {
			if !gs.Flags[f] {
				won = false
				break
			}
		}
		if won {
			return &Outcome{Won: true, Reason: "all quest flags set"}
		}
	}

	for _, f := range end.LoseAnyFlags {
		if gs.Flags[f] {
			return &Outcome{Won: false, Reason: fmt.Sprintf("flag %q ended the game", f)}
		}
	}

	if end.MaxTurns > 0 && gs.Turn >= end.MaxTurns {
		return &Outcome{Won: false, Reason: "turn limit reached"}
	}

	return nil
}
