package state

import (
	"github.com/rulebound/adventure/pkg/rules"
)

// Validator checks proposed updates against the rule catalog and the
// current game state. It is side-effect-free: a Validator never mutates
// the state it inspects.
type Validator struct {
	rules *rules.RuleSet
}

func NewValidator(rs *rules.RuleSet) *Validator {
	return &Validator{rules: rs}
}

// Validate accepts or rejects an update. A rejection is always an
// *InvalidUpdateError carrying the first reason found.
func (v *Validator) Validate(gs *GameState, u *Update) error {
	if gs.IsEnded {
		return rejectf("the game has ended")
	}
	if u == nil {
		return nil
	}

	if u.Location != "" {
		dest, ok := v.rules.GetLocation(u.Location)
		if !ok {
			return rejectf("unknown location %q", u.Location)
		}
		if !v.rules.FreeTravel && dest != gs.Location && !v.rules.HasExit(gs.Location, dest) {
			return rejectf("no exit leads from %q to %q", gs.Location, dest)
		}
	}

	for _, ref := range u.AddItems {
		key, ok := v.rules.GetItem(ref)
		if !ok {
			return rejectf("unknown item %q", ref)
		}
		if item := v.rules.Items[key]; !item.Portable {
			return rejectf("item %q cannot be carried", ref)
		}
	}

	for _, ref := range u.RemoveItems {
		key, ok := v.rules.GetItem(ref)
		if !ok {
			return rejectf("unknown item %q", ref)
		}
		if !gs.HasItem(key) {
			return rejectf("item %q is not in the inventory", ref)
		}
	}

	for _, flag := range u.SetFlags {
		if !v.rules.HasFlag(flag) {
			return rejectf("unknown flag %q", flag)
		}
		if gs.Flags[flag] {
			continue // already set; re-setting needs no precondition
		}
		if !v.rules.FlagRequirementsMet(flag, gs.Flags) {
			return rejectf("flag %q has unmet preconditions", flag)
		}
	}

	for _, flag := range u.ClearFlags {
		if !v.rules.HasFlag(flag) {
			return rejectf("unknown flag %q", flag)
		}
	}

	if u.HPSet != nil && *u.HPSet < 0 {
		return rejectf("hp cannot be set below zero")
	}

	return nil
}
