package adaptive

import (
	"fmt"
	"math"
)

// TurnOutcome is the learner's result for a single puzzle.
type TurnOutcome struct {
	Correct             bool
	ResponseTimeSeconds float64
}

// Validate rejects negative and non-finite response times.
func (o TurnOutcome) Validate() error {
	t := o.ResponseTimeSeconds
	switch {
	case math.IsNaN(t):
		return &ErrInvalidInput{Field: "response_time_seconds", Value: t, Reason: "not a number"}
	case math.IsInf(t, 0):
		return &ErrInvalidInput{Field: "response_time_seconds", Value: t, Reason: "not finite"}
	case t < 0:
		return &ErrInvalidInput{Field: "response_time_seconds", Value: t, Reason: "negative"}
	}
	return nil
}

// ScoreRule names the rule that produced a score delta.
type ScoreRule string

const (
	RuleInaccurate ScoreRule = "inaccurate"
	RuleFluency    ScoreRule = "fluency"
	RuleAccuracy   ScoreRule = "accuracy"
)

// Describe returns a human-readable description of the rule.
func (r ScoreRule) Describe() string {
	switch r {
	case RuleInaccurate:
		return "Inaccurate - incorrect answer indicates a knowledge gap"
	case RuleFluency:
		return "High Fluency - correct answer with a quick response"
	case RuleAccuracy:
		return "Accuracy - correct but slow response"
	default:
		return fmt.Sprintf("unknown score rule %q", string(r))
	}
}

// ScoreModel maps a turn outcome to a score delta.
type ScoreModel struct {
	fluencyThreshold float64
	fluencyBonus     float64
	accuracyBonus    float64
	penalty          float64
}

// NewScoreModel creates a ScoreModel from the scoring fields of cfg.
func NewScoreModel(cfg Config) ScoreModel {
	return ScoreModel{
		fluencyThreshold: cfg.FluencyThresholdSeconds,
		fluencyBonus:     cfg.FluencyBonus,
		accuracyBonus:    cfg.AccuracyBonus,
		penalty:          cfg.InaccuracyPenalty,
	}
}

// ComputeDelta returns the score delta for an outcome and the rule that
// produced it. Rules are checked in order: incorrect, fluent, slow.
func (m ScoreModel) ComputeDelta(o TurnOutcome) (float64, ScoreRule) {
	switch {
	case !o.Correct:
		return m.penalty, RuleInaccurate
	case o.ResponseTimeSeconds <= m.fluencyThreshold:
		return m.fluencyBonus, RuleFluency
	default:
		return m.accuracyBonus, RuleAccuracy
	}
}
