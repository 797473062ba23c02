package store

import (
	"context"
	"time"
)

// QueryOpts configures session queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Subject string    // exact subject match ("" = any)
	From    time.Time // start timestamp >= From
}

// SessionEventData captures a session start or end event.
type SessionEventData struct {
	SessionID string
	Subject   string
	Mode      string // "play" or "simulate"
	Action    string // "start" or "end"

	// Populated on "end" only.
	TurnsPlayed     int
	CorrectAnswers  int
	Transitions     int
	FinalDifficulty string
	FinalPScore     float64
	Duration        time.Duration
}

// TurnEventData captures one recorded turn and the engine's decision.
type TurnEventData struct {
	SessionID        string
	Turn             int
	Difficulty       string
	Question         string
	CorrectAnswer    int
	LearnerAnswer    string
	Correct          bool
	ResponseTimeSecs float64
	ScoreDelta       float64
	DecayedScore     float64
	ScoreAfter       float64
	DifficultyAfter  string
	Transitioned     bool
	Reset            bool
	Rationale        string
	Timestamp        time.Time // set on read
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMQueryOpts filters LLM event queries.
type LLMQueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// LLMUsage aggregates LLM calls for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// SessionRecord is a session assembled from its start and end events.
// Ended is false for sessions that never recorded an end event.
type SessionRecord struct {
	SessionID       string
	Subject         string
	Mode            string
	StartedAt       time.Time
	Ended           bool
	TurnsPlayed     int
	CorrectAnswers  int
	Transitions     int
	FinalDifficulty string
	FinalPScore     float64
	Duration        time.Duration
}

// Accuracy returns the fraction of correct answers, or 0 with no turns.
func (r SessionRecord) Accuracy() float64 {
	if r.TurnsPlayed == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TurnsPlayed)
}

// EventRepo provides append and query access to the session log.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendTurnEvent records one turn.
	AppendTurnEvent(ctx context.Context, data TurnEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts LLMQueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if id does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// ListSessions returns sessions newest first.
	ListSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// SessionTurns returns the turns of a session in order.
	SessionTurns(ctx context.Context, sessionID string) ([]TurnEventData, error)

	// Reset deletes every recorded event.
	Reset(ctx context.Context) error
}
