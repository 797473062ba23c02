package session

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/difficulty"
	"github.com/abhisek/mathadventures/internal/learner"
	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/store"
	"github.com/abhisek/mathadventures/internal/tracker"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestState(t *testing.T, repo store.EventRepo, maxTurns int) (*SessionState, *stepClock) {
	t.Helper()
	eng, err := adaptive.New(adaptive.DefaultConfig())
	require.NoError(t, err)

	clock := &stepClock{t: time.Unix(1_700_000_000, 0)}
	s := NewSessionState("arithmetic", ModePlay, maxTurns, Deps{
		Engine:    eng,
		Generator: puzzle.NewSeededTemplateGenerator(1),
		Tracker:   tracker.New(5),
		EventRepo: repo,
		Now:       clock.now,
	})
	return s, clock
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSubmit_BeforePuzzle(t *testing.T) {
	s, _ := newTestState(t, nil, 0)
	_, err := Submit(context.Background(), s, "3", 2)
	assert.ErrorIs(t, err, ErrNoPuzzle)
}

func TestSubmit_CorrectAndWrong(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestState(t, nil, 0)
	Start(ctx, s)

	require.NoError(t, NextPuzzle(ctx, s))
	require.Equal(t, difficulty.Easy, s.CurrentPuzzle.Difficulty)

	d, err := Submit(ctx, s, itoa(s.CurrentPuzzle.Answer), 3)
	require.NoError(t, err)
	assert.True(t, s.LastAnswerCorrect)
	assert.Equal(t, PhaseFeedback, s.Phase)
	assert.InDelta(t, 1.8, d.ScoreAfter, 1e-9)
	assert.Equal(t, adaptive.RuleFluency, d.ScoreRule)

	require.NoError(t, NextPuzzle(ctx, s))
	assert.Equal(t, PhaseActive, s.Phase)
	d, err = Submit(ctx, s, itoa(s.CurrentPuzzle.Answer+1), 3)
	require.NoError(t, err)
	assert.False(t, s.LastAnswerCorrect)
	assert.Equal(t, adaptive.RuleInaccurate, d.ScoreRule)
	assert.Len(t, s.Tracker.Attempts(), 2)
}

func TestSubmit_InvalidInputIsNotATurn(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestState(t, nil, 0)
	require.NoError(t, NextPuzzle(ctx, s))

	_, err := Submit(ctx, s, "abc", 2)
	assert.Error(t, err)
	_, err = Submit(ctx, s, "", 2)
	assert.ErrorIs(t, err, puzzle.ErrEmptyAnswer)

	_, err = Submit(ctx, s, itoa(s.CurrentPuzzle.Answer), -1)
	var inv *adaptive.ErrInvalidInput
	assert.True(t, errors.As(err, &inv))

	assert.Equal(t, 0, s.Engine.Turns())
	assert.Empty(t, s.Tracker.Attempts())
	assert.Equal(t, PhaseActive, s.Phase)
}

func TestPromotionChangesPuzzleLevel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestState(t, nil, 0)

	for range 4 {
		require.NoError(t, NextPuzzle(ctx, s))
		_, err := Submit(ctx, s, itoa(s.CurrentPuzzle.Answer), 2)
		require.NoError(t, err)
	}
	require.True(t, s.LastDecision.Transitioned)

	require.NoError(t, NextPuzzle(ctx, s))
	assert.Equal(t, difficulty.Medium, s.CurrentPuzzle.Difficulty)
}

func TestDoneAndEnd(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	s, clock := newTestState(t, st.EventRepo(), 2)
	Start(ctx, s)

	for !Done(s) {
		require.NoError(t, NextPuzzle(ctx, s))
		clock.advance(3 * time.Second)
		_, err := Submit(ctx, s, itoa(s.CurrentPuzzle.Answer), 3)
		require.NoError(t, err)
	}

	res := End(ctx, s)
	assert.True(t, res.HasAttempts)
	assert.Equal(t, 2, res.Summary.TotalAttempts)
	assert.Equal(t, 6*time.Second, res.Duration)
	assert.Equal(t, PhaseSummary, s.Phase)

	// A second End does not record another event.
	End(ctx, s)
	assert.ErrorIs(t, NextPuzzle(ctx, s), ErrSessionEnded)

	sessions, err := st.EventRepo().ListSessions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, s.SessionID, sessions[0].SessionID)
	assert.True(t, sessions[0].Ended)
	assert.Equal(t, 2, sessions[0].TurnsPlayed)
	assert.Equal(t, 2, sessions[0].CorrectAnswers)
}

func TestEnd_NoAttempts(t *testing.T) {
	s, _ := newTestState(t, nil, 0)
	res := End(context.Background(), s)
	assert.False(t, res.HasAttempts)
	assert.Equal(t, difficulty.Easy, res.Status.Difficulty)
}

func TestRunner(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	s, _ := newTestState(t, st.EventRepo(), 0)

	var reports []TurnReport
	r := NewRunner(s, learner.NewSimulated(11), WithTurnHook(func(tr TurnReport) {
		reports = append(reports, tr)
	}))

	res, err := r.Run(ctx, 15)
	require.NoError(t, err)
	require.Len(t, reports, 15)
	assert.Equal(t, 15, res.Summary.TotalAttempts)
	assert.Equal(t, 15, res.Status.Turns)

	for i, rep := range reports {
		assert.Equal(t, i+1, rep.Decision.Turn)
		assert.Equal(t, rep.Decision.DifficultyBefore, rep.Puzzle.Difficulty)
		assert.Equal(t, rep.Correct, rep.Response.Answer == itoa(rep.Puzzle.Answer))
	}

	sessions, err := st.EventRepo().ListSessions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "play", sessions[0].Mode)
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := newTestState(t, nil, 0)

	r := NewRunner(s, learner.NewSimulated(2), WithTurnHook(func(tr TurnReport) {
		if tr.Decision.Turn == 3 {
			cancel()
		}
	}))

	res, err := r.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, res.Summary.TotalAttempts)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func TestPresentAndResponseTime(t *testing.T) {
	s, clock := newTestState(t, nil, 0)
	p := &puzzle.Puzzle{Question: "2 + 3", Answer: 5}

	Present(s, p)
	clock.advance(4500 * time.Millisecond)

	assert.Same(t, p, s.CurrentPuzzle)
	assert.Equal(t, PhaseActive, s.Phase)
	assert.InDelta(t, 4.5, ResponseTime(s), 1e-9)
}
