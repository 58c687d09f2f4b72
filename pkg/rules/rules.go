package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Location is a place in the game world with exits to other locations.
type Location struct {
	Name        string            `json:"name"` // Display name; the map key is the ID.
	Description string            `json:"description,omitempty"`
	Exits       map[string]string `json:"exits,omitempty"` // Direction → location key
	Items       []string          `json:"items,omitempty"` // Items findable here
}

// Item is an entry in the item catalog. Only cataloged items may ever
// appear in the player's inventory.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Portable    bool   `json:"portable,omitempty"`
}

// Flag is a boolean story condition. Requires lists flags that must already
// be set before this one may be set.
type Flag struct {
	Description string   `json:"description,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

// Start seeds the initial game state.
type Start struct {
	Location  string          `json:"location"`
	Inventory []string        `json:"inventory,omitempty"`
	Flags     map[string]bool `json:"flags,omitempty"`
}

// Player seeds the player's combat stats.
type Player struct {
	MaxHP      int            `json:"max_hp"`
	AC         int            `json:"ac,omitempty"`
	Attributes map[string]int `json:"attributes,omitempty"`
}

// EndConditions decide when a session is over.
type EndConditions struct {
	WinAllFlags  []string `json:"win_all_flags,omitempty"`  // Win when every flag is set
	LoseAnyFlags []string `json:"lose_any_flags,omitempty"` // Lose when any flag is set
	MaxTurns     int      `json:"max_turns,omitempty"`      // 0 means no turn limit
}

// Quest holds player-facing framing text.
type Quest struct {
	Intro string `json:"intro,omitempty"`
}

// RuleSet is the static rule catalog for a game. It is loaded once and
// read-only for the lifetime of the process.
type RuleSet struct {
	Name          string              `json:"name"`
	Quest         Quest               `json:"quest,omitempty"`
	Locations     map[string]Location `json:"locations"`
	Items         map[string]Item     `json:"items,omitempty"`
	Flags         map[string]Flag     `json:"flags,omitempty"`
	Start         Start               `json:"start"`
	Player        Player              `json:"player,omitempty"`
	EndConditions EndConditions       `json:"end_conditions,omitempty"`
	FreeTravel    bool                `json:"free_travel,omitempty"` // Allow moves without a connecting exit
	Commands      []string            `json:"commands,omitempty"`    // Shown by the help command
}

// Load reads and decodes a rule set from a JSON file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rs RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	return &rs, nil
}

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayName returns the display name for a location or item key,
// falling back to title-casing the key itself.
func (rs *RuleSet) DisplayName(key string) string {
	if loc, ok := rs.Locations[key]; ok && loc.Name != "" {
		return loc.Name
	}
	if item, ok := rs.Items[key]; ok && item.Name != "" {
		return item.Name
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// GetLocation resolves a location by key or display name.
// Returns the canonical key.
func (rs *RuleSet) GetLocation(keyOrName string) (string, bool) {
	norm := NormalizeKey(keyOrName)
	if _, ok := rs.Locations[norm]; ok {
		return norm, true
	}
	for key, loc := range rs.Locations {
		if strings.EqualFold(loc.Name, strings.TrimSpace(keyOrName)) {
			return key, true
		}
	}
	return "", false
}

// GetItem resolves an item by key or display name.
// Returns the canonical key.
func (rs *RuleSet) GetItem(keyOrName string) (string, bool) {
	norm := NormalizeKey(keyOrName)
	if _, ok := rs.Items[norm]; ok {
		return norm, true
	}
	for key, item := range rs.Items {
		if strings.EqualFold(item.Name, strings.TrimSpace(keyOrName)) {
			return key, true
		}
	}
	return "", false
}

// HasFlag reports whether a flag key exists in the catalog.
func (rs *RuleSet) HasFlag(key string) bool {
	_, ok := rs.Flags[NormalizeKey(key)]
	return ok
}

// FlagRequirementsMet reports whether the preconditions for setting a flag
// are satisfied by the given flag state.
func (rs *RuleSet) FlagRequirementsMet(key string, set map[string]bool) bool {
	flag, ok := rs.Flags[NormalizeKey(key)]
	if !ok {
		return false
	}
	for _, req := range flag.Requires {
		if !set[req] {
			return false
		}
	}
	return true
}

// HasExit reports whether the given location has any exit leading to dest.
func (rs *RuleSet) HasExit(from, dest string) bool {
	loc, ok := rs.Locations[from]
	if !ok {
		return false
	}
	for _, to := range loc.Exits {
		if to == dest {
			return true
		}
	}
	return false
}

// NormalizeKey converts a string to lowercase snake_case so that keys,
// display names, and LLM output all resolve consistently.
func NormalizeKey(s string) string {
	var out strings.Builder
	prevUnderscore := false
	for i, r := range strings.TrimSpace(s) {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		switch {
		case r == ' ' || r == '-' || r == '.' || r == '_':
			if !prevUnderscore && i > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out.WriteRune(r)
			prevUnderscore = false
		default:
			// Drop anything else.
		}
	}
	return strings.TrimSuffix(out.String(), "_")
}
