package subject

import (
	"fmt"
	"os"
	"strconv"

	"github.com/abhisek/mathadventures/internal/adaptive"
)

// envFloat lists the numeric MATHADV_* overrides.
var envFloat = []struct {
	key   string
	field func(*adaptive.Config) *float64
}{
	{"MATHADV_FLUENCY_THRESHOLD_SECONDS", func(c *adaptive.Config) *float64 { return &c.FluencyThresholdSeconds }},
	{"MATHADV_FLUENCY_BONUS", func(c *adaptive.Config) *float64 { return &c.FluencyBonus }},
	{"MATHADV_ACCURACY_BONUS", func(c *adaptive.Config) *float64 { return &c.AccuracyBonus }},
	{"MATHADV_INACCURACY_PENALTY", func(c *adaptive.Config) *float64 { return &c.InaccuracyPenalty }},
	{"MATHADV_DECAY_FACTOR", func(c *adaptive.Config) *float64 { return &c.DecayFactor }},
	{"MATHADV_INCREASE_THRESHOLD", func(c *adaptive.Config) *float64 { return &c.IncreaseThreshold }},
	{"MATHADV_DECREASE_THRESHOLD", func(c *adaptive.Config) *float64 { return &c.DecreaseThreshold }},
}

// ApplyEnv overrides cfg from MATHADV_* environment variables and validates
// the result.
func ApplyEnv(cfg adaptive.Config) (adaptive.Config, error) {
	for _, e := range envFloat {
		raw := os.Getenv(e.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return adaptive.Config{}, fmt.Errorf("%s: %w", e.key, err)
		}
		*e.field(&cfg) = v
	}

	if raw := os.Getenv("MATHADV_RESET_MODE"); raw != "" {
		mode, err := adaptive.ParseResetMode(raw)
		if err != nil {
			return adaptive.Config{}, fmt.Errorf("MATHADV_RESET_MODE: %w", err)
		}
		cfg.ResetMode = mode
	}

	if err := cfg.Validate(); err != nil {
		return adaptive.Config{}, err
	}
	return cfg, nil
}

// Resolve builds the effective engine configuration for a subject:
// defaults, then the subject profile from the file at path, then the
// environment.
func Resolve(path, name string) (adaptive.Config, Profile, error) {
	catalog, err := Load(path)
	if err != nil {
		return adaptive.Config{}, Profile{}, err
	}
	prof, err := catalog.Get(name)
	if err != nil {
		return adaptive.Config{}, Profile{}, err
	}
	cfg, err := prof.Apply(adaptive.DefaultConfig())
	if err != nil {
		return adaptive.Config{}, Profile{}, err
	}
	cfg, err = ApplyEnv(cfg)
	if err != nil {
		return adaptive.Config{}, Profile{}, err
	}
	return cfg, prof, nil
}
