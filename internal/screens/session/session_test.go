package session

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/difficulty"
	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/router"
	"github.com/abhisek/mathadventures/internal/screen"
	"github.com/abhisek/mathadventures/internal/screens/summary"
	sess "github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/tracker"
)

type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, level difficulty.Level) (*puzzle.Puzzle, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &puzzle.Puzzle{
		Question:   "3 + 4",
		Expression: "3 + 4",
		Answer:     7,
		Difficulty: level,
		Kind:       puzzle.KindAdd,
		Operands:   []int{3, 4},
	}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testSessionScreen(t *testing.T, gen puzzle.Generator, maxTurns int) *SessionScreen {
	t.Helper()
	eng, err := adaptive.New(adaptive.DefaultConfig())
	require.NoError(t, err)
	state := sess.NewSessionState("arithmetic", sess.ModePlay, maxTurns, sess.Deps{
		Engine:    eng,
		Generator: gen,
		Tracker:   tracker.New(5),
	})
	return New(context.Background(), state)
}

// ready delivers the first puzzle the way the Init command would.
func ready(t *testing.T, s *SessionScreen) {
	t.Helper()
	s.Init()
	s.Update(s.generateNextPuzzle()())
	require.NotNil(t, s.state.CurrentPuzzle)
}

func answer(s *SessionScreen, value string) (screen.Screen, tea.Cmd) {
	s.input.Model.SetValue(value)
	return s.Update(specialKey(tea.KeyEnter))
}

func TestSessionScreen_Loading(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 0)
	assert.Equal(t, "Practice", s.Title())
	assert.Contains(t, s.View(80, 24), "Preparing your next puzzle")
}

func TestSessionScreen_ShowsPuzzle(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 5)
	ready(t, s)

	view := s.View(100, 30)
	assert.Contains(t, view, "3 + 4 = ?")
	assert.Contains(t, view, "Turn 1/5")
}

func TestSessionScreen_CorrectAnswer(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 0)
	ready(t, s)

	_, cmd := answer(s, "7")
	assert.Nil(t, cmd)
	assert.Equal(t, sess.PhaseFeedback, s.state.Phase)
	assert.True(t, s.state.LastAnswerCorrect)
	assert.Len(t, s.state.Tracker.Attempts(), 1)

	view := s.View(100, 30)
	assert.Contains(t, view, "Correct!")
	assert.Contains(t, view, "P-Score")
}

func TestSessionScreen_WrongAnswerShowsCorrection(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 0)
	ready(t, s)

	answer(s, "8")
	view := s.View(100, 30)
	assert.Contains(t, view, "Not quite")
	assert.Contains(t, view, "Correct answer: 7")
	assert.Equal(t, adaptive.RuleInaccurate, s.state.LastDecision.ScoreRule)
}

func TestSessionScreen_InvalidInputIsNotATurn(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 0)
	ready(t, s)

	answer(s, "--")
	assert.Equal(t, sess.PhaseActive, s.state.Phase)
	assert.Equal(t, 0, s.state.Engine.Turns())
	assert.Contains(t, s.View(100, 30), "whole number")

	answer(s, "   ")
	assert.Equal(t, 0, s.state.Engine.Turns())
}

func TestSessionScreen_FeedbackContinues(t *testing.T) {
	gen := &stubGenerator{}
	s := testSessionScreen(t, gen, 0)
	ready(t, s)
	answer(s, "7")

	_, cmd := s.Update(keyPress('x'))
	require.NotNil(t, cmd)
	assert.True(t, s.loading)
	assert.Contains(t, s.View(100, 30), "Preparing")

	s.Update(cmd())
	assert.False(t, s.loading)
	assert.Equal(t, 2, gen.calls)
	assert.Empty(t, s.input.Value())
}

func TestSessionScreen_TransitionBanner(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 0)
	ready(t, s)

	// Four fluent answers lift the decayed score past the promotion threshold.
	for i := range 4 {
		s.state.QuestionStartTime = s.state.Now()
		answer(s, "7")
		if i < 3 {
			s.Update(s.generateNextPuzzle()())
		}
	}
	require.True(t, s.state.LastDecision.Transitioned)
	assert.Contains(t, s.View(100, 40), "Level up!")
	assert.Equal(t, difficulty.Medium, s.state.Engine.Difficulty())
}

func TestSessionScreen_MaxTurnsEndsSession(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 1)
	ready(t, s)
	answer(s, "7")

	_, cmd := s.Update(keyPress('x'))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, sessionEndMsg{}, msg)

	_, cmd = s.Update(msg)
	require.NotNil(t, cmd)
	replace, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &summary.SummaryScreen{}, replace.Screen)
	assert.Equal(t, sess.PhaseSummary, s.state.Phase)
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{}, 0)
	ready(t, s)

	s.Update(specialKey(tea.KeyEscape))
	assert.True(t, s.state.ShowingQuitConfirm)
	assert.Contains(t, s.View(80, 24), "End session early?")

	s.Update(keyPress('n'))
	assert.False(t, s.state.ShowingQuitConfirm)

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	require.NotNil(t, cmd)
	assert.IsType(t, sessionEndMsg{}, cmd())
}

func TestSessionScreen_GenerationError(t *testing.T) {
	s := testSessionScreen(t, &stubGenerator{err: errors.New("boom")}, 0)
	s.Update(s.generateNextPuzzle()())

	assert.Contains(t, s.View(80, 24), "boom")
	_, cmd := s.Update(keyPress('x'))
	require.NotNil(t, cmd)
	assert.IsType(t, sessionEndMsg{}, cmd())
}
