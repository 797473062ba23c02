package adaptive

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid adaptive config")

// ResetMode selects when the P-Score is cleared after a threshold crossing.
type ResetMode string

const (
	// ResetOnThreshold clears the score whenever a threshold is crossed,
	// including at the ceiling (Hard) and floor (Easy) where the level
	// cannot move.
	ResetOnThreshold ResetMode = "threshold"

	// ResetOnLevelChange clears the score only when the level actually moves.
	ResetOnLevelChange ResetMode = "level-change"
)

const (
	DefaultFluencyThresholdSeconds = 5.0
	DefaultFluencyBonus            = 2.0
	DefaultAccuracyBonus           = 1.0
	DefaultInaccuracyPenalty       = -3.0
	DefaultDecayFactor             = 0.9
	DefaultIncreaseThreshold       = 5.0
	DefaultDecreaseThreshold       = -3.0
)

// Config holds the calibration of the scoring and transition rules.
// Every field can be overridden per subject.
type Config struct {
	// FluencyThresholdSeconds is the slowest response still counted as fluent.
	// A response of exactly this many seconds is fluent.
	FluencyThresholdSeconds float64 `yaml:"fluency_threshold_seconds" json:"fluency_threshold_seconds"`

	// FluencyBonus is added for a correct, fluent answer.
	FluencyBonus float64 `yaml:"fluency_bonus" json:"fluency_bonus"`

	// AccuracyBonus is added for a correct but slow answer.
	AccuracyBonus float64 `yaml:"accuracy_bonus" json:"accuracy_bonus"`

	// InaccuracyPenalty is added (it is negative) for an incorrect answer.
	InaccuracyPenalty float64 `yaml:"inaccuracy_penalty" json:"inaccuracy_penalty"`

	// DecayFactor multiplies the score after every turn. Range (0, 1].
	DecayFactor float64 `yaml:"decay_factor" json:"decay_factor"`

	// IncreaseThreshold promotes the learner when the decayed score reaches it.
	IncreaseThreshold float64 `yaml:"increase_threshold" json:"increase_threshold"`

	// DecreaseThreshold demotes the learner when the decayed score falls to it.
	DecreaseThreshold float64 `yaml:"decrease_threshold" json:"decrease_threshold"`

	ResetMode ResetMode `yaml:"reset_mode" json:"reset_mode"`
}

// DefaultConfig returns the arithmetic calibration.
func DefaultConfig() Config {
	return Config{
		FluencyThresholdSeconds: DefaultFluencyThresholdSeconds,
		FluencyBonus:            DefaultFluencyBonus,
		AccuracyBonus:           DefaultAccuracyBonus,
		InaccuracyPenalty:       DefaultInaccuracyPenalty,
		DecayFactor:             DefaultDecayFactor,
		IncreaseThreshold:       DefaultIncreaseThreshold,
		DecreaseThreshold:       DefaultDecreaseThreshold,
		ResetMode:               ResetOnThreshold,
	}
}

// Validate checks that the configuration describes a usable engine.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"fluency_threshold_seconds", c.FluencyThresholdSeconds},
		{"fluency_bonus", c.FluencyBonus},
		{"accuracy_bonus", c.AccuracyBonus},
		{"inaccuracy_penalty", c.InaccuracyPenalty},
		{"decay_factor", c.DecayFactor},
		{"increase_threshold", c.IncreaseThreshold},
		{"decrease_threshold", c.DecreaseThreshold},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, f.name)
		}
	}

	if c.FluencyThresholdSeconds < 0 {
		return fmt.Errorf("%w: fluency_threshold_seconds must not be negative", ErrInvalidConfig)
	}
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return fmt.Errorf("%w: decay_factor must be in (0, 1], got %g", ErrInvalidConfig, c.DecayFactor)
	}
	if c.DecreaseThreshold >= c.IncreaseThreshold {
		return fmt.Errorf("%w: decrease_threshold (%g) must be below increase_threshold (%g)",
			ErrInvalidConfig, c.DecreaseThreshold, c.IncreaseThreshold)
	}

	switch c.ResetMode {
	case ResetOnThreshold, ResetOnLevelChange:
	default:
		return fmt.Errorf("%w: unknown reset_mode %q", ErrInvalidConfig, c.ResetMode)
	}
	return nil
}

// ParseResetMode converts a reset mode name. The empty string maps to
// ResetOnThreshold.
func ParseResetMode(s string) (ResetMode, error) {
	switch ResetMode(s) {
	case "", ResetOnThreshold:
		return ResetOnThreshold, nil
	case ResetOnLevelChange:
		return ResetOnLevelChange, nil
	}
	return "", fmt.Errorf("%w: unknown reset_mode %q", ErrInvalidConfig, s)
}
