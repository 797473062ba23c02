package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/store"
	"github.com/abhisek/mathadventures/internal/tracker"
)

var (
	// ErrNoPuzzle is returned when an answer arrives before any puzzle.
	ErrNoPuzzle = errors.New("no puzzle to answer")

	// ErrSessionEnded is returned for actions after End.
	ErrSessionEnded = errors.New("session has ended")
)

// Start records the session start event. It is idempotent.
func Start(ctx context.Context, s *SessionState) {
	if s.started {
		return
	}
	s.started = true
	s.StartTime = s.now()
	s.appendEvent(ctx, store.SessionEventData{
		SessionID: s.SessionID,
		Subject:   s.Subject,
		Mode:      string(s.Mode),
		Action:    "start",
	})
}

// NextPuzzle generates a puzzle at the engine's current difficulty.
func NextPuzzle(ctx context.Context, s *SessionState) error {
	if s.ended {
		return ErrSessionEnded
	}
	p, err := s.Generator.Generate(ctx, s.Engine.Difficulty())
	if err != nil {
		return fmt.Errorf("generate puzzle: %w", err)
	}
	Present(s, p)
	return nil
}

// Present makes p the current puzzle and starts its response timer.
// Interactive callers generate off the UI loop and present on arrival.
func Present(s *SessionState, p *puzzle.Puzzle) {
	s.CurrentPuzzle = p
	s.QuestionStartTime = s.now()
	s.Phase = PhaseActive
}

// ResponseTime is the seconds elapsed since the current puzzle was shown.
func ResponseTime(s *SessionState) float64 {
	return s.now().Sub(s.QuestionStartTime).Seconds()
}

// Submit checks input against the current puzzle, feeds the result to the
// engine and records the attempt. Input that is not a number returns an
// error from puzzle.ParseAnswer and does not count as a turn.
func Submit(ctx context.Context, s *SessionState, input string, responseTimeSeconds float64) (adaptive.Decision, error) {
	if s.ended {
		return adaptive.Decision{}, ErrSessionEnded
	}
	p := s.CurrentPuzzle
	if p == nil {
		return adaptive.Decision{}, ErrNoPuzzle
	}

	correct, err := puzzle.CheckAnswer(input, p)
	if err != nil {
		return adaptive.Decision{}, err
	}

	d, err := s.Engine.RecordTurn(correct, responseTimeSeconds)
	if err != nil {
		return adaptive.Decision{}, err
	}

	s.Tracker.RecordAttempt(ctx, tracker.Attempt{
		SessionID:           s.SessionID,
		Puzzle:              p,
		Answer:              input,
		Correct:             correct,
		ResponseTimeSeconds: responseTimeSeconds,
		Decision:            d,
	})

	s.LastAnswer = input
	s.LastAnswerCorrect = correct
	s.LastDecision = &d
	s.Phase = PhaseFeedback
	return d, nil
}

// Done reports whether the turn limit has been reached.
func Done(s *SessionState) bool {
	return s.ended || (s.MaxTurns > 0 && s.Engine.Turns() >= s.MaxTurns)
}

// End closes the session, records the end event and returns the result.
// Calling End again returns the result without a second event.
func End(ctx context.Context, s *SessionState) *Result {
	res := BuildResult(s)
	if s.ended {
		return res
	}
	s.ended = true
	s.Phase = PhaseSummary

	data := store.SessionEventData{
		SessionID:       s.SessionID,
		Subject:         s.Subject,
		Mode:            string(s.Mode),
		Action:          "end",
		TurnsPlayed:     res.Status.Turns,
		Transitions:     len(res.Transitions),
		FinalDifficulty: res.Status.Difficulty.String(),
		FinalPScore:     res.Status.PScore,
		Duration:        res.Duration,
	}
	if res.HasAttempts {
		data.CorrectAnswers = res.Summary.CorrectAttempts
	}
	s.appendEvent(ctx, data)
	return res
}

func (s *SessionState) appendEvent(ctx context.Context, data store.SessionEventData) {
	if s.EventRepo == nil {
		return
	}
	if err := s.EventRepo.AppendSessionEvent(ctx, data); err != nil {
		s.logger.Warn("failed to record session event", "action", data.Action, "error", err)
	}
}
