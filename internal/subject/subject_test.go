package subject

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathadventures/internal/adaptive"
)

const sampleYAML = `
subjects:
  times-tables:
    description: Multiplication facts
    fluency_threshold_seconds: 3
    inaccuracy_penalty: -2
  fractions:
    decay_factor: 0.8
    reset_mode: level-change
`

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.Equal(t, []string{DefaultSubject}, c.Names())

	p, err := c.Get("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, p.Name)

	cfg, err := p.Apply(adaptive.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, adaptive.DefaultConfig(), cfg)
}

func TestParse_MergesOverBuiltin(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"arithmetic", "fractions", "times-tables"}, c.Names())

	p, err := c.Get("times-tables")
	require.NoError(t, err)
	assert.Equal(t, "times-tables", p.Name)
	assert.Equal(t, "Multiplication facts", p.Description)

	cfg, err := p.Apply(adaptive.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.FluencyThresholdSeconds)
	assert.Equal(t, -2.0, cfg.InaccuracyPenalty)
	// Unset fields inherit defaults.
	assert.Equal(t, 2.0, cfg.FluencyBonus)
	assert.Equal(t, 0.9, cfg.DecayFactor)

	p, err = c.Get("fractions")
	require.NoError(t, err)
	cfg, err = p.Apply(adaptive.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.DecayFactor)
	assert.Equal(t, adaptive.ResetOnLevelChange, cfg.ResetMode)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"decay out of range", "subjects:\n  x:\n    decay_factor: 1.5\n"},
		{"positive penalty", "subjects:\n  x:\n    inaccuracy_penalty: 2\n"},
		{"negative threshold", "subjects:\n  x:\n    fluency_threshold_seconds: -1\n"},
		{"bad reset mode", "subjects:\n  x:\n    reset_mode: never\n"},
		{"empty profile", "subjects:\n  x:\n"},
		{"not yaml", "subjects: [1, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApply_CrossFieldValidation(t *testing.T) {
	c, err := Parse([]byte("subjects:\n  odd:\n    decrease_threshold: 10\n"))
	require.NoError(t, err)

	p, err := c.Get("odd")
	require.NoError(t, err)
	_, err = p.Apply(adaptive.DefaultConfig())
	assert.ErrorIs(t, err, adaptive.ErrInvalidConfig)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Builtin().Get("geometry")
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultSubject}, c.Names())

	path := filepath.Join(dir, "subjects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Names(), 3)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MATHADV_DECAY_FACTOR", "0.75")
	t.Setenv("MATHADV_INCREASE_THRESHOLD", "6")
	t.Setenv("MATHADV_RESET_MODE", "level-change")

	cfg, err := ApplyEnv(adaptive.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.DecayFactor)
	assert.Equal(t, 6.0, cfg.IncreaseThreshold)
	assert.Equal(t, adaptive.ResetOnLevelChange, cfg.ResetMode)
	assert.Equal(t, 5.0, cfg.FluencyThresholdSeconds)
}

func TestApplyEnv_Errors(t *testing.T) {
	t.Setenv("MATHADV_FLUENCY_BONUS", "lots")
	_, err := ApplyEnv(adaptive.DefaultConfig())
	assert.Error(t, err)
}

func TestApplyEnv_InvalidResult(t *testing.T) {
	t.Setenv("MATHADV_DECAY_FACTOR", "0")
	_, err := ApplyEnv(adaptive.DefaultConfig())
	assert.ErrorIs(t, err, adaptive.ErrInvalidConfig)
}

func TestResolve_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	t.Setenv("MATHADV_INACCURACY_PENALTY", "-4")

	cfg, prof, err := Resolve(path, "times-tables")
	require.NoError(t, err)
	assert.Equal(t, "times-tables", prof.Name)
	assert.Equal(t, 3.0, cfg.FluencyThresholdSeconds)
	// Environment wins over the file.
	assert.Equal(t, -4.0, cfg.InaccuracyPenalty)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("MATHADV_CONFIG", "/tmp/custom.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)

	t.Setenv("MATHADV_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "mathadventures", "subjects.yaml"), p)
}
