package adaptive

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

const epsilon = 1e-9

func newEngine(t *testing.T, state State) *Engine {
	t.Helper()
	e, err := NewWithState(DefaultConfig(), state)
	require.NoError(t, err)
	return e
}

func TestNew_StartsEasyAtZero(t *testing.T) {
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, State{Difficulty: difficulty.Easy, PScore: 0}, e.State())
	assert.Equal(t, 0, e.Turns())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayFactor = 2
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewWithState_RejectsBadState(t *testing.T) {
	_, err := NewWithState(DefaultConfig(), State{Difficulty: difficulty.Level(9)})
	assert.ErrorIs(t, err, difficulty.ErrUnknownLevel)

	_, err = NewWithState(DefaultConfig(), State{PScore: math.NaN()})
	assert.Error(t, err)
}

func TestRecordTurn_FluentFromStart(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Easy, PScore: 0})

	d, err := e.RecordTurn(true, 2.0)
	require.NoError(t, err)

	assert.Equal(t, 2.0, d.ScoreDelta)
	assert.InDelta(t, 1.8, d.DecayedScore, epsilon)
	assert.False(t, d.Transitioned)
	assert.False(t, d.Reset)
	assert.Equal(t, difficulty.Easy, d.DifficultyAfter)
	assert.Equal(t, RuleFluency, d.ScoreRule)
	assert.Equal(t, RuleHold, d.TransitionRule)

	assert.Equal(t, difficulty.Easy, e.Difficulty())
	assert.InDelta(t, 1.8, e.Score(), epsilon)
}

func TestRecordTurn_PromotesEasyToMedium(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Easy, PScore: 4.0})

	d, err := e.RecordTurn(true, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 6.0, d.ScoreAfterDelta, epsilon)
	assert.InDelta(t, 5.4, d.DecayedScore, epsilon)
	assert.True(t, d.Transitioned)
	assert.Equal(t, difficulty.Easy, d.DifficultyBefore)
	assert.Equal(t, difficulty.Medium, d.DifficultyAfter)
	assert.Equal(t, RulePromote, d.TransitionRule)

	assert.Equal(t, State{Difficulty: difficulty.Medium, PScore: 0.0}, e.State())
}

func TestRecordTurn_IncorrectAboveDecreaseThreshold(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Medium, PScore: 0.0})

	d, err := e.RecordTurn(false, 3.0)
	require.NoError(t, err)

	assert.Equal(t, -3.0, d.ScoreDelta)
	assert.InDelta(t, -2.7, d.DecayedScore, epsilon)
	assert.False(t, d.Transitioned)
	assert.Equal(t, difficulty.Medium, e.Difficulty())
	assert.InDelta(t, -2.7, e.Score(), epsilon)
}

func TestRecordTurn_DemotesMediumToEasy(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Medium, PScore: -2.0})

	d, err := e.RecordTurn(false, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, -5.0, d.ScoreAfterDelta, epsilon)
	assert.InDelta(t, -4.5, d.DecayedScore, epsilon)
	assert.True(t, d.Transitioned)
	assert.Equal(t, difficulty.Easy, d.DifficultyAfter)
	assert.Equal(t, RuleDemote, d.TransitionRule)

	assert.Equal(t, State{Difficulty: difficulty.Easy, PScore: 0.0}, e.State())
}

func TestRecordTurn_InvalidInputLeavesStateUnchanged(t *testing.T) {
	start := State{Difficulty: difficulty.Medium, PScore: 1.25}

	for _, seconds := range []float64{-1.0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		e := newEngine(t, start)

		_, err := e.RecordTurn(true, seconds)

		var invalid *ErrInvalidInput
		require.ErrorAs(t, err, &invalid)
		assert.ErrorIs(t, err, ErrInvalidTurn)
		assert.Equal(t, start, e.State())
		assert.Equal(t, 0, e.Turns())
	}
}

func TestRecordTurn_BoundaryIsFluent(t *testing.T) {
	e := newEngine(t, State{})
	d, err := e.RecordTurn(true, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.ScoreDelta)
	assert.Equal(t, RuleFluency, d.ScoreRule)
}

func TestRecordTurn_CeilingResetsUnderThresholdMode(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Hard, PScore: 5.0})

	d, err := e.RecordTurn(true, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 6.3, d.DecayedScore, epsilon)
	assert.False(t, d.Transitioned)
	assert.True(t, d.Reset)
	assert.Equal(t, RuleCeiling, d.TransitionRule)
	assert.Equal(t, State{Difficulty: difficulty.Hard, PScore: 0}, e.State())
	assert.Contains(t, d.Rationale, "reset")
}

func TestRecordTurn_FloorResetsUnderThresholdMode(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Easy, PScore: -1.0})

	d, err := e.RecordTurn(false, 9.0)
	require.NoError(t, err)

	assert.InDelta(t, -3.6, d.DecayedScore, epsilon)
	assert.False(t, d.Transitioned)
	assert.True(t, d.Reset)
	assert.Equal(t, RuleFloor, d.TransitionRule)
	assert.Equal(t, 0.0, e.Score())
}

func TestRecordTurn_LevelChangeModeKeepsScoreAtExtremes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetMode = ResetOnLevelChange

	e, err := NewWithState(cfg, State{Difficulty: difficulty.Hard, PScore: 5.0})
	require.NoError(t, err)

	d, err := e.RecordTurn(true, 1.0)
	require.NoError(t, err)
	assert.False(t, d.Reset)
	assert.Equal(t, RuleCeiling, d.TransitionRule)
	assert.InDelta(t, 6.3, e.Score(), epsilon)

	// A real level change still resets.
	e, err = NewWithState(cfg, State{Difficulty: difficulty.Easy, PScore: 4.0})
	require.NoError(t, err)
	d, err = e.RecordTurn(true, 1.0)
	require.NoError(t, err)
	assert.True(t, d.Transitioned)
	assert.True(t, d.Reset)
	assert.Equal(t, 0.0, e.Score())
}

// Drives the engine through a reproducible stream of outcomes and checks the
// per-turn invariants on each decision.
func TestRecordTurn_Invariants(t *testing.T) {
	for _, mode := range []ResetMode{ResetOnThreshold, ResetOnLevelChange} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ResetMode = mode
			e, err := New(cfg)
			require.NoError(t, err)

			rng := rand.New(rand.NewPCG(42, uint64(len(mode))))
			for i := 0; i < 2000; i++ {
				prev := e.State()
				correct := rng.Float64() < 0.6
				seconds := rng.Float64() * 12

				d, err := e.RecordTurn(correct, seconds)
				require.NoError(t, err)

				assert.Equal(t, prev.PScore, d.ScoreBefore)
				assert.Equal(t, (prev.PScore+d.ScoreDelta)*cfg.DecayFactor, d.DecayedScore)

				if d.Transitioned {
					assert.Equal(t, 0.0, e.Score())
					step := int(d.DifficultyAfter) - int(d.DifficultyBefore)
					assert.True(t, step == 1 || step == -1, "step %d", step)
				} else {
					assert.Equal(t, d.DifficultyBefore, d.DifficultyAfter)
				}
				if !d.Reset {
					assert.Equal(t, d.DecayedScore, e.Score())
				}

				assert.True(t, e.Difficulty().Valid())
				assert.Equal(t, i+1, d.Turn)
				assert.Equal(t, Explain(d), d.Rationale)
			}
		})
	}
}

func TestRecordTurn_LevelBoundsUnderExtremeStreaks(t *testing.T) {
	e := newEngine(t, State{})
	for i := 0; i < 50; i++ {
		_, err := e.RecordTurn(true, 0.5)
		require.NoError(t, err)
		assert.LessOrEqual(t, e.Difficulty(), difficulty.Hard)
	}
	assert.Equal(t, difficulty.Hard, e.Difficulty())

	for i := 0; i < 50; i++ {
		_, err := e.RecordTurn(false, 0.5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.Difficulty(), difficulty.Easy)
	}
	assert.Equal(t, difficulty.Easy, e.Difficulty())
}

func TestExplain_NamesBothRules(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Easy, PScore: 4.0})
	d, err := e.RecordTurn(true, 1.0)
	require.NoError(t, err)

	assert.Contains(t, d.Rationale, "High Fluency")
	assert.Contains(t, d.Rationale, "Promote")
	assert.Contains(t, d.Rationale, "Easy -> Medium")
}

func TestStatus(t *testing.T) {
	e := newEngine(t, State{Difficulty: difficulty.Medium, PScore: 1.23456})
	s := e.Status()

	assert.Equal(t, difficulty.Medium, s.Difficulty)
	assert.Equal(t, 1, s.DifficultyIndex)
	assert.Equal(t, 1.23, s.PScore)
	assert.Equal(t, 5.0, s.IncreaseThreshold)
	assert.Equal(t, -3.0, s.DecreaseThreshold)
	assert.Equal(t, 0, s.Turns)
}
