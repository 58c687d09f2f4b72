package rules

import (
	"fmt"
	"strings"
)

// Validate checks the rule set for authoring errors: dangling exits, items
// placed but never cataloged, unknown flags in preconditions or end
// conditions, and cycles in flag requirements. All problems are reported
// at once rather than stopping at the first.
func (rs *RuleSet) Validate() error {
	var errs []string

	if rs.Name == "" {
		errs = append(errs, "name is required")
	}
	if len(rs.Locations) == 0 {
		errs = append(errs, "at least one location is required")
	}

	for key, loc := range rs.Locations {
		if key != NormalizeKey(key) {
			errs = append(errs, fmt.Sprintf("location key %q must be lowercase snake_case", key))
		}
		for dir, dest := range loc.Exits {
			if _, ok := rs.Locations[dest]; !ok {
				errs = append(errs, fmt.Sprintf("location %q exit %q leads to unknown location %q", key, dir, dest))
			}
		}
		for _, item := range loc.Items {
			if _, ok := rs.Items[item]; !ok {
				errs = append(errs, fmt.Sprintf("location %q lists unknown item %q", key, item))
			}
		}
	}

	for key := range rs.Items {
		if key != NormalizeKey(key) {
			errs = append(errs, fmt.Sprintf("item key %q must be lowercase snake_case", key))
		}
	}

	for key, flag := range rs.Flags {
		if key != NormalizeKey(key) {
			errs = append(errs, fmt.Sprintf("flag key %q must be lowercase snake_case", key))
		}
		for _, req := range flag.Requires {
			if _, ok := rs.Flags[req]; !ok {
				errs = append(errs, fmt.Sprintf("flag %q requires unknown flag %q", key, req))
			}
		}
	}
	if cycle := rs.findRequireCycle(); cycle != "" {
		errs = append(errs, fmt.Sprintf("flag requirements contain a cycle through %q", cycle))
	}

	if rs.Start.Location == "" {
		errs = append(errs, "start.location is required")
	} else if _, ok := rs.Locations[rs.Start.Location]; !ok {
		errs = append(errs, fmt.Sprintf("start.location %q is not a known location", rs.Start.Location))
	}
	for _, item := range rs.Start.Inventory {
		if _, ok := rs.Items[item]; !ok {
			errs = append(errs, fmt.Sprintf("start.inventory lists unknown item %q", item))
		}
	}
	for key := range rs.Start.Flags {
		if _, ok := rs.Flags[key]; !ok {
			errs = append(errs, fmt.Sprintf("start.flags lists unknown flag %q", key))
		}
	}

	if rs.Player.MaxHP < 0 {
		errs = append(errs, "player.max_hp must not be negative")
	}

	for _, f := range rs.EndConditions.WinAllFlags {
		if _, ok := rs.Flags[f]; !ok {
			errs = append(errs, fmt.Sprintf("end_conditions.win_all_flags lists unknown flag %q", f))
		}
	}
	for _, f := range rs.EndConditions.LoseAnyFlags {
		if _, ok := rs.Flags[f]; !ok {
			errs = append(errs, fmt.Sprintf("end_conditions.lose_any_flags lists unknown flag %q", f))
		}
	}
	if rs.EndConditions.MaxTurns < 0 {
		errs = append(errs, "end_conditions.max_turns must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid rule set:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// findRequireCycle returns a flag key participating in a requires cycle,
// or "" if the requirement graph is acyclic.
func (rs *RuleSet) findRequireCycle() string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	mark := make(map[string]int, len(rs.Flags))

	var visit func(key string) bool
	visit = func(key string) bool {
		switch mark[key] {
		case visiting:
			return true
		case done:
			return false
		}
		mark[key] = visiting
		for _, req := range rs.Flags[key].Requires {
			if _, ok := rs.Flags[req]; !ok {
				continue // reported separately
			}
			if visit(req) {
				return true
			}
		}
		mark[key] = done
		return false
	}

	for key := range rs.Flags {
		if visit(key) {
			return key
		}
	}
	return ""
}
