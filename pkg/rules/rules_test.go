package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func testRules() *RuleSet {
	return &RuleSet{
		Name: "Test Cove",
		Locations: map[string]Location{
			"dock": {
				Name:  "The Dock",
				Exits: map[string]string{"north": "tavern"},
				Items: []string{"rope"},
			},
			"tavern": {
				Name:  "Salty Tavern",
				Exits: map[string]string{"south": "dock"},
			},
		},
		Items: map[string]Item{
			"rope":      {Name: "Coil of Rope", Portable: true},
			"rusty_key": {Name: "Rusty Key", Portable: true},
		},
		Flags: map[string]Flag{
			"door_unlocked": {Requires: []string{"has_seen_door"}},
			"has_seen_door": {},
			"hp_zero":       {},
		},
		Start: Start{
			Location:  "dock",
			Inventory: []string{"rope"},
		},
		Player: Player{MaxHP: 10},
		EndConditions: EndConditions{
			WinAllFlags:  []string{"door_unlocked"},
			LoseAnyFlags: []string{"hp_zero"},
			MaxTurns:     50,
		},
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rusty Key", "rusty_key"},
		{"rusty_key", "rusty_key"},
		{"  The Dock  ", "the_dock"},
		{"Half-Burnt Map", "half_burnt_map"},
		{"CELLAR", "cellar"},
		{"cellar!", "cellar"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetLocation(t *testing.T) {
	rs := testRules()

	tests := []struct {
		in      string
		wantKey string
		wantOK  bool
	}{
		{"dock", "dock", true},
		{"The Dock", "dock", true},
		{"Salty Tavern", "tavern", true},
		{"TAVERN", "tavern", true},
		{"crypt", "", false},
	}
	for _, tt := range tests {
		key, ok := rs.GetLocation(tt.in)
		if ok != tt.wantOK || key != tt.wantKey {
			t.Errorf("GetLocation(%q) = (%q, %v), want (%q, %v)", tt.in, key, ok, tt.wantKey, tt.wantOK)
		}
	}
}

func TestGetItem(t *testing.T) {
	rs := testRules()

	if key, ok := rs.GetItem("Rusty Key"); !ok || key != "rusty_key" {
		t.Errorf("GetItem by display name = (%q, %v)", key, ok)
	}
	if _, ok := rs.GetItem("cursed_doubloon"); ok {
		t.Error("GetItem should not resolve unknown items")
	}
}

func TestFlagRequirementsMet(t *testing.T) {
	rs := testRules()

	if rs.FlagRequirementsMet("door_unlocked", map[string]bool{}) {
		t.Error("requirements should not be met with no flags set")
	}
	if !rs.FlagRequirementsMet("door_unlocked", map[string]bool{"has_seen_door": true}) {
		t.Error("requirements should be met when prerequisite flag is set")
	}
	if !rs.FlagRequirementsMet("has_seen_door", nil) {
		t.Error("flag with no requirements should always be settable")
	}
	if rs.FlagRequirementsMet("no_such_flag", nil) {
		t.Error("unknown flag should never pass")
	}
}

func TestHasExit(t *testing.T) {
	rs := testRules()

	if !rs.HasExit("dock", "tavern") {
		t.Error("dock should have an exit to tavern")
	}
	if rs.HasExit("tavern", "tavern") {
		t.Error("tavern should not have an exit to itself")
	}
	if rs.HasExit("crypt", "dock") {
		t.Error("unknown location should have no exits")
	}
}

func TestDisplayName(t *testing.T) {
	rs := testRules()

	if got := rs.DisplayName("dock"); got != "The Dock" {
		t.Errorf("DisplayName(dock) = %q", got)
	}
	if got := rs.DisplayName("rusty_key"); got != "Rusty Key" {
		t.Errorf("DisplayName(rusty_key) = %q", got)
	}
	if got := rs.DisplayName("dark_cellar"); got != "Dark Cellar" {
		t.Errorf("DisplayName fallback = %q", got)
	}
}

func TestValidate_OK(t *testing.T) {
	if err := testRules().Validate(); err != nil {
		t.Fatalf("valid rule set rejected: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rs *RuleSet)
	}{
		{"dangling exit", func(rs *RuleSet) {
			loc := rs.Locations["dock"]
			loc.Exits = map[string]string{"west": "nowhere"}
			rs.Locations["dock"] = loc
		}},
		{"uncataloged location item", func(rs *RuleSet) {
			loc := rs.Locations["dock"]
			loc.Items = []string{"ghost_item"}
			rs.Locations["dock"] = loc
		}},
		{"unknown flag requirement", func(rs *RuleSet) {
			rs.Flags["door_unlocked"] = Flag{Requires: []string{"missing"}}
		}},
		{"unknown start location", func(rs *RuleSet) {
			rs.Start.Location = "limbo"
		}},
		{"unknown start item", func(rs *RuleSet) {
			rs.Start.Inventory = []string{"phantom"}
		}},
		{"unknown win flag", func(rs *RuleSet) {
			rs.EndConditions.WinAllFlags = []string{"missing"}
		}},
		{"uppercase item key", func(rs *RuleSet) {
			rs.Items["RustyKey"] = Item{Name: "Rusty Key"}
		}},
		{"requires cycle", func(rs *RuleSet) {
			rs.Flags["a"] = Flag{Requires: []string{"b"}}
			rs.Flags["b"] = Flag{Requires: []string{"a"}}
		}},
		{"negative max turns", func(rs *RuleSet) {
			rs.EndConditions.MaxTurns = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := testRules()
			tt.mutate(rs)
			if err := rs.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")

	data := []byte(`{
		"name": "Mini",
		"locations": {"cell": {"name": "Cell"}},
		"start": {"location": "cell"},
		"player": {"max_hp": 5}
	}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rs.Name != "Mini" || rs.Start.Location != "cell" || rs.Player.MaxHP != 5 {
		t.Errorf("unexpected rule set: %+v", rs)
	}

	if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("Load of missing file should fail")
	}
}
