package session

import (
	"errors"
	"time"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/tracker"
)

// Result is everything shown when a session ends.
type Result struct {
	SessionID string
	Subject   string
	Duration  time.Duration

	// HasAttempts is false when the session ended before any answer; the
	// Summary and Recent fields are then zero.
	HasAttempts bool
	Summary     tracker.Summary
	Recent      tracker.Recent

	Status      adaptive.Status
	Attempts    []tracker.Attempt
	Transitions []tracker.Transition
}

// BuildResult assembles a Result from the current session state.
func BuildResult(s *SessionState) *Result {
	res := &Result{
		SessionID:   s.SessionID,
		Subject:     s.Subject,
		Duration:    s.Elapsed(),
		Status:      s.Engine.Status(),
		Attempts:    s.Tracker.Attempts(),
		Transitions: s.Tracker.Transitions(),
	}

	summary, err := s.Tracker.Summary()
	if errors.Is(err, tracker.ErrNoAttempts) {
		return res
	}
	res.HasAttempts = true
	res.Summary = summary
	res.Recent, _ = s.Tracker.Recent(tracker.DefaultRecentWindow)
	return res
}
