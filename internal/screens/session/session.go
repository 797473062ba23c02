// Package session is the interactive play screen.
package session

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/router"
	"github.com/abhisek/mathadventures/internal/screen"
	"github.com/abhisek/mathadventures/internal/screens/summary"
	sess "github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/ui/components"
	"github.com/abhisek/mathadventures/internal/ui/layout"
)

// SessionScreen implements screen.Screen for the active session.
type SessionScreen struct {
	ctx      context.Context
	state    *sess.SessionState
	input    components.TextInput
	loading  bool
	inputErr string
	errMsg   string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for state. ctx bounds puzzle generation
// and event writes.
func New(ctx context.Context, state *sess.SessionState) *SessionScreen {
	return &SessionScreen{
		ctx:     ctx,
		state:   state,
		input:   components.NewTextInput("Type your answer...", true, 12),
		loading: true,
	}
}

// State returns the session driven by this screen.
func (s *SessionScreen) State() *sess.SessionState {
	return s.state
}

func (s *SessionScreen) Init() tea.Cmd {
	sess.Start(s.ctx, s.state)
	return tea.Batch(
		s.generateNextPuzzle(),
		s.input.Init(),
	)
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Finish"}}
	case s.state.ShowingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.state.Phase == sess.PhaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.state.ShowingQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.state.Phase == sess.PhaseFeedback {
		return s.renderFeedback(width)
	}
	if s.loading || s.state.CurrentPuzzle == nil {
		return renderLoading(width)
	}
	return s.renderQuestionView(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case puzzleReadyMsg:
		return s.handlePuzzleReady(msg)

	case sessionEndMsg:
		return s.handleSessionEnd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.acceptingInput() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) acceptingInput() bool {
	return s.errMsg == "" && !s.loading && !s.state.ShowingQuitConfirm &&
		s.state.Phase == sess.PhaseActive && s.state.CurrentPuzzle != nil
}

func (s *SessionScreen) handlePuzzleReady(msg puzzleReadyMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.errMsg = "could not create a puzzle: " + msg.Err.Error()
		return s, nil
	}
	sess.Present(s.state, msg.Puzzle)
	s.input.Reset()
	s.inputErr = ""
	return s, nil
}

func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	res := sess.End(s.ctx, s.state)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res)}
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, endSession
	}

	if s.state.ShowingQuitConfirm {
		switch key {
		case "y", "Y":
			s.state.ShowingQuitConfirm = false
			return s, endSession
		case "n", "N", "esc":
			s.state.ShowingQuitConfirm = false
		}
		return s, nil
	}

	if s.state.Phase == sess.PhaseFeedback {
		if sess.Done(s.state) {
			return s, endSession
		}
		s.loading = true
		s.state.Phase = sess.PhaseActive
		return s, s.generateNextPuzzle()
	}

	switch key {
	case "esc":
		s.state.ShowingQuitConfirm = true
		return s, nil
	case "enter":
		if s.acceptingInput() {
			return s.submitAnswer()
		}
		return s, nil
	}

	if s.acceptingInput() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// submitAnswer scores the typed answer. Input that is not a whole number
// leaves the puzzle on screen without using up a turn.
func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	value := strings.TrimSpace(s.input.Value())
	if value == "" {
		return s, nil
	}

	_, err := sess.Submit(s.ctx, s.state, value, sess.ResponseTime(s.state))
	switch {
	case err == nil:
	case errors.Is(err, sess.ErrSessionEnded), errors.Is(err, sess.ErrNoPuzzle):
		s.errMsg = err.Error()
		return s, nil
	case errors.Is(err, puzzle.ErrEmptyAnswer):
		return s, nil
	default:
		s.inputErr = "Type a whole number, like 42"
		return s, nil
	}

	s.inputErr = ""
	s.input.Submit(s.state.LastAnswerCorrect)
	return s, nil
}

// generateNextPuzzle asks the generator for a puzzle at the current level
// off the UI loop.
func (s *SessionScreen) generateNextPuzzle() tea.Cmd {
	ctx := s.ctx
	gen := s.state.Generator
	level := s.state.Engine.Difficulty()
	return func() tea.Msg {
		p, err := gen.Generate(ctx, level)
		return puzzleReadyMsg{Puzzle: p, Err: err}
	}
}

func endSession() tea.Msg {
	return sessionEndMsg{}
}
