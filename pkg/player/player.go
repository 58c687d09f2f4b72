package player

import (
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/rulebound/adventure/pkg/rules"
)

// DefaultMaxHP is used when the rule set does not seed player stats.
const DefaultMaxHP = 10

// Player wraps a d20.Actor for the single player character. The actor owns
// max HP, AC and attributes; current HP is mirrored into GameState, which
// stays authoritative for persistence.
type Player struct {
	Actor *d20.Actor
}

// New builds a Player from the rule set's player seed.
func New(spec rules.Player) (*Player, error) {
	maxHP := spec.MaxHP
	if maxHP <= 0 {
		maxHP = DefaultMaxHP
	}

	actor, err := d20.NewActor("player").
		WithHP(maxHP).
		WithAC(spec.AC).
		WithAttributes(spec.Attributes).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build player actor: %w", err)
	}

	return &Player{Actor: actor}, nil
}

// MaxHP returns the player's maximum hit points.
func (p *Player) MaxHP() int {
	return p.Actor.MaxHP()
}

// ApplyHPDelta applies a hit point change to the given current HP and
// returns the result, clamped to [0, MaxHP]. The actor is kept in sync
// while HP is positive; d20 actors do not model a downed state.
func (p *Player) ApplyHPDelta(current, delta int) int {
	hp := current + delta
	if hp < 0 {
		hp = 0
	}
	if hp > p.Actor.MaxHP() {
		hp = p.Actor.MaxHP()
	}
	if hp > 0 {
		_ = p.Actor.SetHP(hp)
	}
	return hp
}

// Attribute exposes the underlying actor attribute lookup.
func (p *Player) Attribute(key string) (int, bool) {
	return p.Actor.Attribute(key)
}
