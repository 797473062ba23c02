package adaptive

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

// State is the engine's mutable session state.
type State struct {
	Difficulty difficulty.Level
	PScore     float64
}

// Decision records everything that happened during one turn.
type Decision struct {
	Turn int

	ScoreBefore     float64
	ScoreDelta      float64
	ScoreAfterDelta float64

	// DecayedScore is the score the policy evaluated, before any reset.
	DecayedScore float64

	// ScoreAfter is the P-Score carried into the next turn.
	ScoreAfter float64

	DifficultyBefore difficulty.Level
	DifficultyAfter  difficulty.Level
	Transitioned     bool

	// Reset is true when the score was cleared this turn. It can be true
	// without Transitioned at the ceiling or floor under ResetOnThreshold.
	Reset bool

	ScoreRule      ScoreRule
	TransitionRule TransitionRule

	// Rationale is derived from the fields above by Explain.
	Rationale string
}

// Explain builds the rationale text for a decision. It reads only the
// decision's own fields, so it can be recomputed at any time.
func Explain(d Decision) string {
	var b strings.Builder
	b.WriteString(d.ScoreRule.Describe())
	fmt.Fprintf(&b, " (%+.1f)", d.ScoreDelta)
	b.WriteString("; ")
	b.WriteString(d.TransitionRule.describe(d.DifficultyBefore, d.DifficultyAfter, d.DecayedScore))
	if d.Reset {
		b.WriteString("; P-Score reset to 0.0")
	}
	return b.String()
}

// Status is a snapshot of the engine for monitoring and display.
type Status struct {
	Difficulty        difficulty.Level
	DifficultyIndex   int
	PScore            float64 // rounded to 2 decimal places
	IncreaseThreshold float64
	DecreaseThreshold float64
	Turns             int
}

// Engine applies the score model and transition policy turn by turn.
// An Engine belongs to a single session and is not safe for concurrent use.
type Engine struct {
	cfg    Config
	scores ScoreModel
	policy TransitionPolicy
	state  State
	turns  int
}

// New creates an engine starting at {Easy, 0.0}.
func New(cfg Config) (*Engine, error) {
	return NewWithState(cfg, State{Difficulty: difficulty.Easy})
}

// NewWithState creates an engine resuming from the given state.
func NewWithState(cfg Config, state State) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !state.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: %d", difficulty.ErrUnknownLevel, int(state.Difficulty))
	}
	if math.IsNaN(state.PScore) || math.IsInf(state.PScore, 0) {
		return nil, fmt.Errorf("initial P-Score must be finite, got %g", state.PScore)
	}
	return &Engine{
		cfg:    cfg,
		scores: NewScoreModel(cfg),
		policy: NewTransitionPolicy(cfg),
		state:  state,
	}, nil
}

// RecordTurn scores one turn, applies decay and the transition policy, and
// returns the resulting Decision. Invalid input returns *ErrInvalidInput
// without touching the engine state.
func (e *Engine) RecordTurn(correct bool, responseTimeSeconds float64) (Decision, error) {
	return e.Record(TurnOutcome{Correct: correct, ResponseTimeSeconds: responseTimeSeconds})
}

// Record is RecordTurn for an already-built TurnOutcome.
func (e *Engine) Record(o TurnOutcome) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}

	delta, scoreRule := e.scores.ComputeDelta(o)
	scoreBefore := e.state.PScore
	afterDelta := scoreBefore + delta
	decayed := afterDelta * e.cfg.DecayFactor

	before := e.state.Difficulty
	next, transitioned, transRule := e.policy.Evaluate(before, decayed)

	reset := transitioned
	if e.cfg.ResetMode == ResetOnThreshold && transRule.ThresholdCrossed() {
		reset = true
	}

	scoreAfter := decayed
	if reset {
		scoreAfter = 0.0
	}

	e.turns++
	e.state = State{Difficulty: next, PScore: scoreAfter}

	d := Decision{
		Turn:             e.turns,
		ScoreBefore:      scoreBefore,
		ScoreDelta:       delta,
		ScoreAfterDelta:  afterDelta,
		DecayedScore:     decayed,
		ScoreAfter:       scoreAfter,
		DifficultyBefore: before,
		DifficultyAfter:  next,
		Transitioned:     transitioned,
		Reset:            reset,
		ScoreRule:        scoreRule,
		TransitionRule:   transRule,
	}
	d.Rationale = Explain(d)
	return d, nil
}

// State returns the current engine state.
func (e *Engine) State() State {
	return e.state
}

// Difficulty returns the current level.
func (e *Engine) Difficulty() difficulty.Level {
	return e.state.Difficulty
}

// Score returns the current P-Score.
func (e *Engine) Score() float64 {
	return e.state.PScore
}

// Turns returns the number of successfully recorded turns.
func (e *Engine) Turns() int {
	return e.turns
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Status returns a display snapshot of the engine.
func (e *Engine) Status() Status {
	return Status{
		Difficulty:        e.state.Difficulty,
		DifficultyIndex:   int(e.state.Difficulty),
		PScore:            math.Round(e.state.PScore*100) / 100,
		IncreaseThreshold: e.cfg.IncreaseThreshold,
		DecreaseThreshold: e.cfg.DecreaseThreshold,
		Turns:             e.turns,
	}
}
