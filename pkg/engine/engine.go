// Package engine runs the turn loop: player input goes out to the LLM as a
// prompt, the proposed state delta comes back, and only validated deltas
// reach the authoritative game state.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rulebound/adventure/pkg/chat"
	"github.com/rulebound/adventure/pkg/player"
	"github.com/rulebound/adventure/pkg/prompts"
	"github.com/rulebound/adventure/pkg/rules"
	"github.com/rulebound/adventure/pkg/state"
	"github.com/rulebound/adventure/pkg/transcript"
)

// RejectedMessage is what the player sees when the GM proposed an illegal
// state change and the delta was discarded.
const RejectedMessage = "Nothing happens."

// LLM is the narrow interface the engine needs from the model backend.
type LLM interface {
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)
}

// Engine mediates between free-form LLM output and the authoritative game
// state. It is single-session and turn-synchronous: one command in, at most
// one state transition out.
type Engine struct {
	rules     *rules.RuleSet
	gs        *state.GameState
	player    *player.Player
	validator *state.Validator
	llm       LLM
	log       *transcript.Writer
	logger    *slog.Logger
}

// New builds an engine for a rule set. A nil gs starts a fresh session.
func New(rs *rules.RuleSet, gs *state.GameState, llm LLM, logger *slog.Logger) (*Engine, error) {
	if gs == nil {
		gs = state.NewGameState(rs)
	} else if err := gs.CheckInvariants(rs); err != nil {
		return nil, fmt.Errorf("refusing to run on corrupt state: %w", err)
	}

	pl, err := player.New(rs.Player)
	if err != nil {
		return nil, err
	}

	return &Engine{
		rules:     rs,
		gs:        gs,
		player:    pl,
		validator: state.NewValidator(rs),
		llm:       llm,
		logger:    logger,
	}, nil
}

// WithTranscript enables turn logging. Returns the engine for chaining.
func (e *Engine) WithTranscript(w *transcript.Writer) *Engine {
	e.log = w
	return e
}

// State exposes the current game state. Callers must treat it as read-only;
// all mutation goes through ProcessTurn or ApplyStructured.
func (e *Engine) State() *state.GameState {
	return e.gs
}

// Rules exposes the rule set the session runs on.
func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// Intro returns the quest framing text for session start.
func (e *Engine) Intro() string {
	if e.rules.Quest.Intro != "" {
		return e.rules.Quest.Intro
	}
	return "Your adventure begins."
}

// RestoreState replaces the session state with a loaded snapshot after
// checking it against the rule catalog.
func (e *Engine) RestoreState(gs *state.GameState) error {
	if gs == nil {
		return fmt.Errorf("no snapshot to restore")
	}
	if err := gs.CheckInvariants(e.rules); err != nil {
		return fmt.Errorf("refusing to restore corrupt snapshot: %w", err)
	}
	e.gs = gs
	return nil
}

// TurnResult is the outcome of one processed input.
type TurnResult struct {
	Narration    string
	StateChange  []string       // Atomic commands that were applied (empty if none)
	Handled      bool           // Resolved locally; no LLM call, no turn consumed
	Rejected     bool           // Delta failed validation and was discarded
	RejectReason string         // Why the delta was rejected
	Outcome      *state.Outcome // Non-nil when this turn ended the game
}

// ProcessTurn handles one player input end to end.
// Fatal errors (LLM transport, invariant breakage) abort the turn.
func (e *Engine) ProcessTurn(ctx context.Context, input string) (*TurnResult, error) {
	if e.gs.IsEnded {
		return &TurnResult{Narration: "The game has ended.", Handled: true}, nil
	}

	if res := e.gs.TryHandleCommand(e.rules, input); res.Handled {
		return &TurnResult{Narration: res.Message, Handled: true}, nil
	}

	msgs, err := prompts.BuildTurnPrompt(e.rules, e.gs, input)
	if err != nil {
		return nil, err
	}

	raw, err := e.llm.Chat(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	resp := chat.ParseGMResponse(raw)
	return e.resolveTurn(input, resp)
}

// resolveTurn validates and applies the GM's proposed delta.
func (e *Engine) resolveTurn(input string, resp *chat.GMResponse) (*TurnResult, error) {
	result := &TurnResult{Narration: resp.Narration.String()}

	update, err := state.ParseAtoms(resp.StateChange)
	if err == nil {
		err = e.validator.Validate(e.gs, update)
	}

	switch {
	case err == nil:
		worker := state.NewUpdateWorker(e.rules, e.gs, e.player, e.logger)
		if applyErr := worker.Apply(update); applyErr != nil {
			// Post-validation invariant failure. Fatal: the state can no
			// longer be trusted, so the turn is aborted without
			// history or transcript.
			e.logger.Error("state invariant broken after apply",
				"error", applyErr,
				"turn", e.gs.Turn,
				"state_change", resp.StateChange)
			return nil, applyErr
		}
		result.StateChange = resp.StateChange

	case state.IsInvalidUpdate(err):
		e.logger.Info("rejected state change",
			"reason", err.Error(),
			"state_change", resp.StateChange)
		result.Rejected = true
		result.RejectReason = err.Error()
		result.Narration = RejectedMessage

	default:
		return nil, err
	}

	e.gs.AppendHistory(input, resp)
	e.appendTranscript(input, resp, result.Rejected)

	if !result.Rejected {
		if out := e.gs.EvaluateEnd(e.rules); out != nil {
			e.gs.IsEnded = true
			result.Outcome = out
		}
	}

	return result, nil
}

// ApplyStructured applies a field→value update directly, bypassing the LLM.
// Used for scripted events and debugging; the same validation applies.
func (e *Engine) ApplyStructured(su *state.StructuredUpdate) (*TurnResult, error) {
	update := su.Normalize()
	if err := e.validator.Validate(e.gs, update); err != nil {
		if state.IsInvalidUpdate(err) {
			return &TurnResult{
				Narration:    RejectedMessage,
				Rejected:     true,
				RejectReason: err.Error(),
			}, nil
		}
		return nil, err
	}

	worker := state.NewUpdateWorker(e.rules, e.gs, e.player, e.logger)
	if err := worker.Apply(update); err != nil {
		return nil, err
	}

	result := &TurnResult{}
	if out := e.gs.EvaluateEnd(e.rules); out != nil {
		e.gs.IsEnded = true
		result.Outcome = out
	}
	return result, nil
}

func (e *Engine) appendTranscript(input string, resp *chat.GMResponse, rejected bool) {
	if e.log == nil {
		return
	}
	err := e.log.Append(transcript.Entry{
		Command:     input,
		Narration:   resp.Narration.String(),
		StateChange: resp.StateChange,
		Rejected:    rejected,
		State:       e.gs,
	})
	if err != nil {
		// Transcript failures never abort a turn.
		e.logger.Warn("failed to append transcript", "error", err)
	}
}
