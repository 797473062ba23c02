// Package session drives one adaptive practice session: it asks the
// generator for puzzles, scores answers through the engine and records
// everything with the tracker and the event store.
package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/logging"
	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/store"
	"github.com/abhisek/mathadventures/internal/tracker"
)

// Phase is the current phase of the session.
type Phase int

const (
	PhaseActive   Phase = iota // Waiting for an answer
	PhaseFeedback              // Showing the result of the last answer
	PhaseSummary               // Session over
)

// Mode labels how the session is played.
type Mode string

const (
	ModePlay     Mode = "play"
	ModeSimulate Mode = "simulate"
)

// Deps are the collaborators a session needs. EventRepo and Logger may
// be nil.
type Deps struct {
	Engine    *adaptive.Engine
	Generator puzzle.Generator
	Tracker   *tracker.Tracker
	EventRepo store.EventRepo
	Logger    *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// SessionState tracks the runtime state of an active session.
type SessionState struct {
	SessionID string
	Subject   string
	Mode      Mode

	// MaxTurns ends the session after that many answers. Zero means no limit.
	MaxTurns int

	Engine    *adaptive.Engine
	Generator puzzle.Generator
	Tracker   *tracker.Tracker
	EventRepo store.EventRepo

	logger *slog.Logger
	now    func() time.Time

	// CurrentPuzzle is the puzzle on screen (nil before the first one).
	CurrentPuzzle *puzzle.Puzzle

	// QuestionStartTime is when CurrentPuzzle was shown.
	QuestionStartTime time.Time

	StartTime time.Time
	Phase     Phase

	LastAnswer        string
	LastAnswerCorrect bool
	LastDecision      *adaptive.Decision

	// ShowingQuitConfirm is true while the quit dialog is displayed.
	ShowingQuitConfirm bool

	started bool
	ended   bool
}

// NewSessionState creates a session with a fresh UUID.
func NewSessionState(subject string, mode Mode, maxTurns int, deps Deps) *SessionState {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SessionState{
		SessionID: uuid.NewString(),
		Subject:   subject,
		Mode:      mode,
		MaxTurns:  maxTurns,
		Engine:    deps.Engine,
		Generator: deps.Generator,
		Tracker:   deps.Tracker,
		EventRepo: deps.EventRepo,
		logger:    logging.OrDiscard(deps.Logger),
		now:       now,
		StartTime: now(),
		Phase:     PhaseActive,
	}
}

// Now returns the session clock's current time.
func (s *SessionState) Now() time.Time {
	return s.now()
}

// Elapsed is the time since the session started.
func (s *SessionState) Elapsed() time.Duration {
	return s.now().Sub(s.StartTime)
}
