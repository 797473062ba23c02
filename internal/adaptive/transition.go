package adaptive

import (
	"fmt"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

// TransitionRule names the outcome of a TransitionPolicy evaluation.
type TransitionRule string

const (
	RulePromote TransitionRule = "promote"
	RuleDemote  TransitionRule = "demote"
	RuleHold    TransitionRule = "hold"

	// RuleCeiling: the increase threshold was reached at the hardest level.
	RuleCeiling TransitionRule = "ceiling"

	// RuleFloor: the decrease threshold was reached at the easiest level.
	RuleFloor TransitionRule = "floor"
)

// ThresholdCrossed reports whether the rule fired on a threshold,
// regardless of whether the level moved.
func (r TransitionRule) ThresholdCrossed() bool {
	switch r {
	case RulePromote, RuleDemote, RuleCeiling, RuleFloor:
		return true
	}
	return false
}

// TransitionPolicy decides level changes from the decayed score.
type TransitionPolicy struct {
	increase float64
	decrease float64
}

// NewTransitionPolicy creates a policy from the threshold fields of cfg.
func NewTransitionPolicy(cfg Config) TransitionPolicy {
	return TransitionPolicy{
		increase: cfg.IncreaseThreshold,
		decrease: cfg.DecreaseThreshold,
	}
}

// Evaluate returns the level after applying the thresholds to score.
// Levels move by at most one step and never leave [Easy, Hard].
func (p TransitionPolicy) Evaluate(level difficulty.Level, score float64) (difficulty.Level, bool, TransitionRule) {
	switch {
	case score >= p.increase && level != difficulty.Highest:
		return level.Up(), true, RulePromote
	case score <= p.decrease && level != difficulty.Lowest:
		return level.Down(), true, RuleDemote
	case score >= p.increase:
		return level, false, RuleCeiling
	case score <= p.decrease:
		return level, false, RuleFloor
	}
	return level, false, RuleHold
}

// describe returns a human-readable description of the transition.
func (r TransitionRule) describe(before, after difficulty.Level, score float64) string {
	switch r {
	case RulePromote:
		return fmt.Sprintf("Promote - P-Score %+.2f reached the increase threshold, %s -> %s", score, before, after)
	case RuleDemote:
		return fmt.Sprintf("Demote - P-Score %+.2f reached the decrease threshold, %s -> %s", score, before, after)
	case RuleCeiling:
		return fmt.Sprintf("Ceiling - P-Score %+.2f reached the increase threshold, already at %s", score, before)
	case RuleFloor:
		return fmt.Sprintf("Floor - P-Score %+.2f reached the decrease threshold, already at %s", score, before)
	case RuleHold:
		return fmt.Sprintf("Hold - P-Score %+.2f within thresholds, staying at %s", score, before)
	default:
		return fmt.Sprintf("unknown transition rule %q", string(r))
	}
}
