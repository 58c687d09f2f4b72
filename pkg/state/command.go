package state

import (
	"fmt"
	"strings"

	"github.com/rulebound/adventure/pkg/rules"
)

type CommandType string

const (
	CmdLook      CommandType = "look"
	CmdInventory CommandType = "inventory"
	CmdStatus    CommandType = "status"
	CmdHelp      CommandType = "help"
	CmdNone      CommandType = "" // Not a local command; goes to the LLM
)

var knownCommands = map[string]CommandType{
	"look":      CmdLook,
	"l":         CmdLook,
	"location":  CmdLook,
	"inventory": CmdInventory,
	"i":         CmdInventory,
	"status":    CmdStatus,
	"hp":        CmdStatus,
	"help":      CmdHelp,
	"h":         CmdHelp,
}

func parseCommand(input string) CommandType {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if cmd, ok := knownCommands[trimmed]; ok {
		return cmd
	}
	return CmdNone
}

// CommandResult is an early evaluation of player input.
type CommandResult struct {
	Handled bool   // True if resolved locally and no LLM call is needed
	Message string // Reply to show the player
}

// TryHandleCommand resolves shortcut commands (look, inventory, status,
// help) against the game state without consulting the LLM. Unrecognized
// input passes through untouched.
func (gs *GameState) TryHandleCommand(rs *rules.RuleSet, input string) *CommandResult {
	switch parseCommand(input) {
	case CmdLook:
		return &CommandResult{Handled: true, Message: gs.DescribeLocation(rs)}
	case CmdInventory:
		return &CommandResult{Handled: true, Message: gs.DescribeInventory(rs)}
	case CmdStatus:
		return &CommandResult{Handled: true, Message: gs.DescribeStatus(rs)}
	case CmdHelp:
		return &CommandResult{Handled: true, Message: describeHelp(rs)}
	default:
		return &CommandResult{Handled: false, Message: input}
	}
}

func (gs *GameState) DescribeLocation(rs *rules.RuleSet) string {
	loc, ok := rs.Locations[gs.Location]
	if !ok {
		return "You are in an unknown location."
	}

	var b strings.Builder
	b.WriteString(loc.Description)
	if len(loc.Exits) > 0 {
		var exits []string
		for dir, dest := range loc.Exits {
			exits = append(exits, fmt.Sprintf("%s (%s)", dir, rs.DisplayName(dest)))
		}
		b.WriteString("\nExits: " + strings.Join(exits, ", "))
	}
	return b.String()
}

func (gs *GameState) DescribeInventory(rs *rules.RuleSet) string {
	if len(gs.Inventory) == 0 {
		return "Your inventory is empty."
	}
	names := make([]string, len(gs.Inventory))
	for i, item := range gs.Inventory {
		names[i] = rs.DisplayName(item)
	}
	return "You have:\n- " + strings.Join(names, "\n- ")
}

func (gs *GameState) DescribeStatus(rs *rules.RuleSet) string {
	return fmt.Sprintf("%s — HP %d/%d, turn %d", rs.DisplayName(gs.Location), gs.HP, gs.MaxHP, gs.Turn)
}

func describeHelp(rs *rules.RuleSet) string {
	if len(rs.Commands) == 0 {
		return "Commands: look, inventory, status, help, save, load, quit. Anything else is sent to the narrator."
	}
	return "Commands: " + strings.Join(rs.Commands, ", ")
}
