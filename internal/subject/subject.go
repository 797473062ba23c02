// Package subject models per-subject calibration of the adaptive engine as
// data. Profiles are loaded from YAML and layered over the built-in defaults.
package subject

import (
	"errors"
	"fmt"
	"sort"

	"github.com/abhisek/mathadventures/internal/adaptive"
)

// DefaultSubject is the built-in subject used when none is selected.
const DefaultSubject = "arithmetic"

// ErrUnknownSubject is returned by Catalog.Get for unknown names.
var ErrUnknownSubject = errors.New("unknown subject")

// Profile holds the overrides for one subject. Nil fields inherit the
// engine defaults.
type Profile struct {
	Name        string `yaml:"-" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" validate:"max=200"`

	FluencyThresholdSeconds *float64 `yaml:"fluency_threshold_seconds,omitempty" json:"fluency_threshold_seconds,omitempty" validate:"omitempty,gte=0"`
	FluencyBonus            *float64 `yaml:"fluency_bonus,omitempty" json:"fluency_bonus,omitempty"`
	AccuracyBonus           *float64 `yaml:"accuracy_bonus,omitempty" json:"accuracy_bonus,omitempty"`
	InaccuracyPenalty       *float64 `yaml:"inaccuracy_penalty,omitempty" json:"inaccuracy_penalty,omitempty" validate:"omitempty,lte=0"`
	DecayFactor             *float64 `yaml:"decay_factor,omitempty" json:"decay_factor,omitempty" validate:"omitempty,gt=0,lte=1"`
	IncreaseThreshold       *float64 `yaml:"increase_threshold,omitempty" json:"increase_threshold,omitempty"`
	DecreaseThreshold       *float64 `yaml:"decrease_threshold,omitempty" json:"decrease_threshold,omitempty"`
	ResetMode               string   `yaml:"reset_mode,omitempty" json:"reset_mode,omitempty" validate:"omitempty,oneof=threshold level-change"`
}

// Apply layers the profile's overrides onto base and validates the result.
func (p Profile) Apply(base adaptive.Config) (adaptive.Config, error) {
	cfg := base
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.FluencyThresholdSeconds, p.FluencyThresholdSeconds)
	set(&cfg.FluencyBonus, p.FluencyBonus)
	set(&cfg.AccuracyBonus, p.AccuracyBonus)
	set(&cfg.InaccuracyPenalty, p.InaccuracyPenalty)
	set(&cfg.DecayFactor, p.DecayFactor)
	set(&cfg.IncreaseThreshold, p.IncreaseThreshold)
	set(&cfg.DecreaseThreshold, p.DecreaseThreshold)

	if p.ResetMode != "" {
		mode, err := adaptive.ParseResetMode(p.ResetMode)
		if err != nil {
			return adaptive.Config{}, fmt.Errorf("subject %q: %w", p.Name, err)
		}
		cfg.ResetMode = mode
	}

	if err := cfg.Validate(); err != nil {
		return adaptive.Config{}, fmt.Errorf("subject %q: %w", p.Name, err)
	}
	return cfg, nil
}

// Catalog is the set of known subjects.
type Catalog struct {
	profiles map[string]Profile
}

// Builtin returns a catalog containing only the default subject.
func Builtin() *Catalog {
	return &Catalog{
		profiles: map[string]Profile{
			DefaultSubject: {
				Name:        DefaultSubject,
				Description: "Mixed addition, subtraction, multiplication and division",
			},
		},
	}
}

// Get returns the named profile.
func (c *Catalog) Get(name string) (Profile, error) {
	if name == "" {
		name = DefaultSubject
	}
	p, ok := c.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSubject, name)
	}
	return p, nil
}

// Names returns all subject names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for n := range c.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// merge adds or replaces profiles from other.
func (c *Catalog) merge(other map[string]*Profile) {
	for name, p := range other {
		prof := *p
		prof.Name = name
		c.profiles[name] = prof
	}
}
