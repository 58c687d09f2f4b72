package state

import (
	"testing"

	"github.com/rulebound/adventure/pkg/rules"
)

// testRuleSet is the shared fixture for state package tests: a two-room
// world with a gated flag and a stationary anvil.
func testRuleSet() *rules.RuleSet {
	return &rules.RuleSet{
		Name: "Test Cove",
		Locations: map[string]rules.Location{
			"dock": {
				Name:  "The Dock",
				Exits: map[string]string{"north": "tavern"},
			},
			"tavern": {
				Name:  "Salty Tavern",
				Exits: map[string]string{"south": "dock"},
			},
			"crypt": {Name: "Sunken Crypt"}, // unreachable without free travel
		},
		Items: map[string]rules.Item{
			"rope":      {Name: "Coil of Rope", Portable: true},
			"rusty_key": {Name: "Rusty Key", Portable: true},
			"torch":     {Name: "Torch", Portable: true},
			"anvil":     {Name: "Anvil"},
		},
		Flags: map[string]rules.Flag{
			"has_seen_door": {},
			"door_unlocked": {Requires: []string{"has_seen_door"}},
			"hp_zero":       {},
		},
		Start: rules.Start{
			Location:  "dock",
			Inventory: []string{"rope"},
		},
		Player: rules.Player{MaxHP: 10},
		EndConditions: rules.EndConditions{
			WinAllFlags:  []string{"door_unlocked"},
			LoseAnyFlags: []string{"hp_zero"},
			MaxTurns:     20,
		},
	}
}

func TestValidator_Accepts(t *testing.T) {
	rs := testRuleSet()
	v := NewValidator(rs)

	tests := []struct {
		name   string
		update *Update
	}{
		{"nil update", nil},
		{"empty update", &Update{}},
		{"move along exit", &Update{Location: "tavern"}},
		{"move by display name", &Update{Location: "Salty Tavern"}},
		{"move to current location", &Update{Location: "dock"}},
		{"add cataloged item", &Update{AddItems: []string{"rusty_key"}}},
		{"add item by display name", &Update{AddItems: []string{"Rusty Key"}}},
		{"remove held item", &Update{RemoveItems: []string{"rope"}}},
		{"set unconditional flag", &Update{SetFlags: []string{"has_seen_door"}}},
		{"hp damage", &Update{HPDelta: -30}},
		{"hp heal", &Update{HPDelta: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState(rs)
			if err := v.Validate(gs, tt.update); err != nil {
				t.Errorf("Validate rejected valid update: %v", err)
			}
		})
	}
}

func TestValidator_Rejects(t *testing.T) {
	rs := testRuleSet()
	v := NewValidator(rs)
	negHP := -1

	tests := []struct {
		name   string
		update *Update
	}{
		{"unknown location", &Update{Location: "moon_base"}},
		{"move without exit", &Update{Location: "crypt"}},
		{"unknown item add", &Update{AddItems: []string{"cursed_doubloon"}}},
		{"non-portable item", &Update{AddItems: []string{"anvil"}}},
		{"unknown item remove", &Update{RemoveItems: []string{"cursed_doubloon"}}},
		{"remove item not held", &Update{RemoveItems: []string{"torch"}}},
		{"unknown flag set", &Update{SetFlags: []string{"no_such_flag"}}},
		{"flag precondition unmet", &Update{SetFlags: []string{"door_unlocked"}}},
		{"unknown flag clear", &Update{ClearFlags: []string{"no_such_flag"}}},
		{"negative absolute hp", &Update{HPSet: &negHP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState(rs)
			err := v.Validate(gs, tt.update)
			if err == nil {
				t.Fatal("expected rejection, got nil")
			}
			if !IsInvalidUpdate(err) {
				t.Errorf("error should be an InvalidUpdateError, got %T", err)
			}
		})
	}
}

func TestValidator_FlagPreconditionMet(t *testing.T) {
	rs := testRuleSet()
	v := NewValidator(rs)

	gs := NewGameState(rs)
	gs.Flags["has_seen_door"] = true

	if err := v.Validate(gs, &Update{SetFlags: []string{"door_unlocked"}}); err != nil {
		t.Errorf("flag with met precondition should validate: %v", err)
	}
}

func TestValidator_FreeTravel(t *testing.T) {
	rs := testRuleSet()
	rs.FreeTravel = true
	v := NewValidator(rs)

	gs := NewGameState(rs)
	if err := v.Validate(gs, &Update{Location: "crypt"}); err != nil {
		t.Errorf("free travel should allow exitless moves: %v", err)
	}
}

func TestValidator_EndedGame(t *testing.T) {
	rs := testRuleSet()
	v := NewValidator(rs)

	gs := NewGameState(rs)
	gs.IsEnded = true

	if err := v.Validate(gs, &Update{Location: "tavern"}); err == nil {
		t.Error("updates against an ended game should be rejected")
	}
}

// The validator must not mutate the state it inspects.
func TestValidator_SideEffectFree(t *testing.T) {
	rs := testRuleSet()
	v := NewValidator(rs)

	gs := NewGameState(rs)
	before := *gs
	beforeInv := append([]string(nil), gs.Inventory...)

	_ = v.Validate(gs, &Update{Location: "tavern", AddItems: []string{"torch"}, HPDelta: -5})
	_ = v.Validate(gs, &Update{Location: "moon_base"})

	if gs.Location != before.Location || gs.HP != before.HP || gs.Turn != before.Turn {
		t.Error("Validate mutated scalar state")
	}
	if len(gs.Inventory) != len(beforeInv) {
		t.Error("Validate mutated inventory")
	}
}
