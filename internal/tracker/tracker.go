// Package tracker accumulates per-session attempts and derives statistics.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/difficulty"
	"github.com/abhisek/mathadventures/internal/logging"
	"github.com/abhisek/mathadventures/internal/puzzle"
)

// ErrNoAttempts is returned by Summary and Recent before any attempt.
var ErrNoAttempts = errors.New("no attempts recorded")

// DefaultRecentWindow is the number of attempts Recent looks at by default.
const DefaultRecentWindow = 5

// improvingAccuracy is the recent accuracy above which a learner is
// considered to be improving.
const improvingAccuracy = 0.6

// Attempt is one answered puzzle with the engine's decision.
type Attempt struct {
	SessionID           string
	Puzzle              *puzzle.Puzzle
	Answer              string
	Correct             bool
	ResponseTimeSeconds float64
	Decision            adaptive.Decision

	// Elapsed is the time since the session started, set by the tracker.
	Elapsed time.Duration
}

// Transition is a level change derived from a transitioning decision.
type Transition struct {
	Turn int
	From difficulty.Level
	To   difficulty.Level

	// TriggerScore is the decayed score that crossed the threshold.
	TriggerScore float64
	Elapsed      time.Duration
}

// Sink receives every recorded attempt.
type Sink interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSinks adds sinks that receive every attempt.
func WithSinks(sinks ...Sink) Option {
	return func(t *Tracker) { t.sinks = append(t.sinks, sinks...) }
}

// WithLogger sets the logger used to report sink failures.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logging.OrDiscard(l) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker records attempts for one session. Not safe for concurrent use.
type Tracker struct {
	fluencyThreshold float64
	sinks            []Sink
	logger           *slog.Logger
	now              func() time.Time

	start       time.Time
	attempts    []Attempt
	transitions []Transition
}

// New creates a tracker. Responses at or under fluencyThresholdSeconds
// count as fast.
func New(fluencyThresholdSeconds float64, opts ...Option) *Tracker {
	t := &Tracker{
		fluencyThreshold: fluencyThresholdSeconds,
		logger:           logging.Discard(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.now()
	return t
}

// RecordAttempt stores a and forwards it to every sink. Sink errors are
// logged and do not stop the session.
func (t *Tracker) RecordAttempt(ctx context.Context, a Attempt) {
	a.Elapsed = t.now().Sub(t.start)
	t.attempts = append(t.attempts, a)

	if d := a.Decision; d.Transitioned {
		t.transitions = append(t.transitions, Transition{
			Turn:         d.Turn,
			From:         d.DifficultyBefore,
			To:           d.DifficultyAfter,
			TriggerScore: d.DecayedScore,
			Elapsed:      a.Elapsed,
		})
	}

	for _, s := range t.sinks {
		if err := s.RecordAttempt(ctx, a); err != nil {
			t.logger.Warn("tracker sink failed", "turn", a.Decision.Turn, "error", err)
		}
	}
}

// Attempts returns a copy of every recorded attempt in order.
func (t *Tracker) Attempts() []Attempt {
	return append([]Attempt(nil), t.attempts...)
}

// Transitions returns a copy of every level change in order.
func (t *Tracker) Transitions() []Transition {
	return append([]Transition(nil), t.transitions...)
}

// Summary is the end-of-session statistics. Rates are percentages.
type Summary struct {
	TotalAttempts   int
	CorrectAttempts int
	AccuracyRate    float64 // 1 decimal place

	AvgResponseTime  float64 // seconds, 2 decimal places
	FastResponses    int
	FastResponseRate float64 // 1 decimal place
	FluencyThreshold float64

	DifficultyDistribution map[difficulty.Level]int
	Transitions            int

	FinalPScore float64 // 2 decimal places
	MinPScore   float64
	MaxPScore   float64

	Duration time.Duration
}

// Summary computes statistics over every attempt.
func (t *Tracker) Summary() (Summary, error) {
	n := len(t.attempts)
	if n == 0 {
		return Summary{}, ErrNoAttempts
	}

	s := Summary{
		TotalAttempts:          n,
		FluencyThreshold:       t.fluencyThreshold,
		DifficultyDistribution: make(map[difficulty.Level]int),
		Transitions:            len(t.transitions),
		MinPScore:              math.Inf(1),
		MaxPScore:              math.Inf(-1),
		Duration:               t.now().Sub(t.start),
	}

	var totalTime float64
	for _, a := range t.attempts {
		if a.Correct {
			s.CorrectAttempts++
		}
		totalTime += a.ResponseTimeSeconds
		if a.ResponseTimeSeconds <= t.fluencyThreshold {
			s.FastResponses++
		}
		s.DifficultyDistribution[a.Decision.DifficultyBefore]++

		score := a.Decision.ScoreAfter
		s.MinPScore = min(s.MinPScore, score)
		s.MaxPScore = max(s.MaxPScore, score)
	}

	s.AccuracyRate = round(100*float64(s.CorrectAttempts)/float64(n), 1)
	s.AvgResponseTime = round(totalTime/float64(n), 2)
	s.FastResponseRate = round(100*float64(s.FastResponses)/float64(n), 1)
	s.FinalPScore = round(t.attempts[n-1].Decision.ScoreAfter, 2)
	s.MinPScore = round(s.MinPScore, 2)
	s.MaxPScore = round(s.MaxPScore, 2)
	return s, nil
}

// Recent describes the learner's last few attempts.
type Recent struct {
	AttemptsAnalyzed int
	Correct          int
	Accuracy         float64 // percentage, 1 decimal place
	Trend            string  // "improving" or "struggling"
}

// Recent analyzes the last n attempts, or all of them if fewer. n <= 0
// uses DefaultRecentWindow.
func (t *Tracker) Recent(n int) (Recent, error) {
	if len(t.attempts) == 0 {
		return Recent{}, ErrNoAttempts
	}
	if n <= 0 {
		n = DefaultRecentWindow
	}
	window := t.attempts[max(0, len(t.attempts)-n):]

	r := Recent{AttemptsAnalyzed: len(window)}
	for _, a := range window {
		if a.Correct {
			r.Correct++
		}
	}
	acc := float64(r.Correct) / float64(len(window))
	r.Accuracy = round(100*acc, 1)
	r.Trend = "struggling"
	if acc > improvingAccuracy {
		r.Trend = "improving"
	}
	return r, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
