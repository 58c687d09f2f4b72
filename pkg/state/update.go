package state

import (
	"strconv"
	"strings"

	"github.com/rulebound/adventure/pkg/rules"
)

// Update is the normalized internal representation of a proposed state
// change. Both input forms (ordered atoms from the LLM contract and the
// structured field mapping) reduce to this before validation.
type Update struct {
	Location    string   // Move the player; empty means no move
	AddItems    []string // Item keys or display names to add to inventory
	RemoveItems []string // Item keys or display names to remove
	SetFlags    []string
	ClearFlags  []string
	HPDelta     int
	HPSet       *int // Absolute hit points; takes precedence over HPDelta
}

// IsEmpty reports whether the update proposes no change at all.
func (u *Update) IsEmpty() bool {
	return u == nil || (u.Location == "" &&
		len(u.AddItems) == 0 &&
		len(u.RemoveItems) == 0 &&
		len(u.SetFlags) == 0 &&
		len(u.ClearFlags) == 0 &&
		u.HPDelta == 0 &&
		u.HPSet == nil)
}

// Atom verbs accepted from the LLM's state_change list.
const (
	atomMoveTo     = "move_to"
	atomAddItem    = "add_item"
	atomRemoveItem = "remove_item"
	atomSetFlag    = "set_flag"
	atomClearFlag  = "clear_flag"
	atomHPDelta    = "hp_delta"
)

// ParseAtoms normalizes an ordered list of atomic command strings
// ("verb: argument") into an Update. Order is preserved within each field;
// a later move_to wins. Unknown verbs, missing arguments, and non-integer
// hp deltas reject the whole update.
func ParseAtoms(atoms []string) (*Update, error) {
	u := &Update{}

	for _, atom := range atoms {
		verb, arg, found := strings.Cut(atom, ":")
		verb = strings.TrimSpace(strings.ToLower(verb))
		arg = strings.TrimSpace(arg)

		if !found || arg == "" {
			return nil, rejectf("atom %q has no argument", atom)
		}

		switch verb {
		case atomMoveTo:
			u.Location = arg
		case atomAddItem:
			u.AddItems = append(u.AddItems, arg)
		case atomRemoveItem:
			u.RemoveItems = append(u.RemoveItems, arg)
		case atomSetFlag:
			u.SetFlags = append(u.SetFlags, rules.NormalizeKey(arg))
		case atomClearFlag:
			u.ClearFlags = append(u.ClearFlags, rules.NormalizeKey(arg))
		case atomHPDelta:
			delta, err := strconv.Atoi(arg)
			if err != nil {
				return nil, rejectf("atom %q has a non-integer hp delta", atom)
			}
			u.HPDelta += delta
		default:
			return nil, rejectf("atom %q has unknown verb %q", atom, verb)
		}
	}

	return u, nil
}

// StructuredUpdate is the field→new-value form of a proposed change.
// Flags maps flag keys to their new value (true sets, false clears).
type StructuredUpdate struct {
	Location    string          `json:"location,omitempty"`
	AddItems    []string        `json:"add_items,omitempty"`
	RemoveItems []string        `json:"remove_items,omitempty"`
	Flags       map[string]bool `json:"flags,omitempty"`
	HP          *int            `json:"hp,omitempty"`
	HPDelta     int             `json:"hp_delta,omitempty"`
}

// Normalize converts the structured form to the internal Update. Flag keys
// are sorted into set/clear lists; map iteration order is irrelevant since
// each key appears once.
func (su *StructuredUpdate) Normalize() *Update {
	u := &Update{
		Location:    strings.TrimSpace(su.Location),
		AddItems:    append([]string(nil), su.AddItems...),
		RemoveItems: append([]string(nil), su.RemoveItems...),
		HPDelta:     su.HPDelta,
		HPSet:       su.HP,
	}
	for key, val := range su.Flags {
		if val {
			u.SetFlags = append(u.SetFlags, rules.NormalizeKey(key))
		} else {
			u.ClearFlags = append(u.ClearFlags, rules.NormalizeKey(key))
		}
	}
	return u
}
