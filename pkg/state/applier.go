package state

import (
	"log/slog"

	"github.com/rulebound/adventure/pkg/player"
	"github.com/rulebound/adventure/pkg/rules"
)

// UpdateWorker applies validated updates to a game state. It is the only
// mutator of GameState; every apply advances the turn counter by exactly one
// and re-checks the state invariants afterwards.
type UpdateWorker struct {
	rules  *rules.RuleSet
	gs     *GameState
	player *player.Player
	logger *slog.Logger
}

func NewUpdateWorker(rs *rules.RuleSet, gs *GameState, pl *player.Player, logger *slog.Logger) *UpdateWorker {
	return &UpdateWorker{
		rules:  rs,
		gs:     gs,
		player: pl,
		logger: logger,
	}
}

// Apply merges the update field-by-field and increments the turn counter.
// The update must already have passed validation; if the merged state still
// breaks an invariant, an *InvalidStateError is returned and the caller
// must discard the state (the apply is not rolled back).
func (w *UpdateWorker) Apply(u *Update) error {
	prevTurn := w.gs.Turn

	if u != nil {
		w.applyLocation(u)
		w.applyItems(u)
		w.applyFlags(u)
		w.applyHP(u)
	}

	w.gs.Turn++
	w.normalizeInventory()

	if w.gs.Turn != prevTurn+1 {
		return &InvalidStateError{Reason: "turn counter did not advance by one"}
	}
	return w.gs.CheckInvariants(w.rules)
}

func (w *UpdateWorker) applyLocation(u *Update) {
	if u.Location == "" {
		return
	}
	dest, ok := w.rules.GetLocation(u.Location)
	if !ok {
		if w.logger != nil {
			w.logger.Warn("could not resolve location", "input", u.Location, "current", w.gs.Location)
		}
		return
	}
	if dest != w.gs.Location && w.logger != nil {
		w.logger.Info("location changed", "from", w.gs.Location, "to", dest)
	}
	w.gs.Location = dest
}

func (w *UpdateWorker) applyItems(u *Update) {
	for _, ref := range u.AddItems {
		key, ok := w.rules.GetItem(ref)
		if !ok {
			continue
		}
		if !w.gs.HasItem(key) {
			w.gs.Inventory = append(w.gs.Inventory, key)
		}
	}

	for _, ref := range u.RemoveItems {
		key, ok := w.rules.GetItem(ref)
		if !ok {
			continue
		}
		for i, item := range w.gs.Inventory {
			if item == key {
				w.gs.Inventory = append(w.gs.Inventory[:i], w.gs.Inventory[i+1:]...)
				break
			}
		}
	}
}

func (w *UpdateWorker) applyFlags(u *Update) {
	if len(u.SetFlags) == 0 && len(u.ClearFlags) == 0 {
		return
	}
	if w.gs.Flags == nil {
		w.gs.Flags = make(map[string]bool)
	}
	for _, flag := range u.SetFlags {
		w.gs.Flags[flag] = true
	}
	for _, flag := range u.ClearFlags {
		delete(w.gs.Flags, flag)
	}
}

func (w *UpdateWorker) applyHP(u *Update) {
	switch {
	case u.HPSet != nil:
		hp := *u.HPSet
		if hp > w.gs.MaxHP {
			hp = w.gs.MaxHP
		}
		w.gs.HP = hp
	case u.HPDelta != 0:
		w.gs.HP = w.player.ApplyHPDelta(w.gs.HP, u.HPDelta)
	default:
		return
	}

	if w.gs.HP == 0 {
		if w.gs.Flags == nil {
			w.gs.Flags = make(map[string]bool)
		}
		w.gs.Flags[HPZeroFlag] = true
		if w.logger != nil {
			w.logger.Info("player hp reached zero", "turn", w.gs.Turn)
		}
	}
}

// normalizeInventory drops duplicate inventory entries, keeping first
// occurrence order.
func (w *UpdateWorker) normalizeInventory() {
	seen := make(map[string]bool, len(w.gs.Inventory))
	out := w.gs.Inventory[:0]
	for _, item := range w.gs.Inventory {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	w.gs.Inventory = out
}
