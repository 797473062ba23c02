package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/mathadventures/internal/logging"
	"github.com/abhisek/mathadventures/internal/metrics"
	"github.com/abhisek/mathadventures/internal/store"
)

// LogSink writes each attempt as a structured log record at debug level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger discards everything.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logging.OrDiscard(logger)}
}

func (s *LogSink) RecordAttempt(ctx context.Context, a Attempt) error {
	d := a.Decision
	s.logger.DebugContext(ctx, "turn recorded",
		"session", a.SessionID,
		"turn", d.Turn,
		"difficulty", d.DifficultyBefore,
		"correct", a.Correct,
		"response_time", a.ResponseTimeSeconds,
		"delta", d.ScoreDelta,
		"score", d.ScoreAfter)
	if d.Transitioned {
		s.logger.InfoContext(ctx, "difficulty changed",
			"session", a.SessionID,
			"turn", d.Turn,
			"from", d.DifficultyBefore,
			"to", d.DifficultyAfter,
			"trigger_score", d.DecayedScore)
	}
	return nil
}

// MetricsSink updates Prometheus collectors.
type MetricsSink struct {
	metrics *metrics.Metrics
}

// NewMetricsSink creates a MetricsSink.
func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

func (s *MetricsSink) RecordAttempt(_ context.Context, a Attempt) error {
	d := a.Decision
	s.metrics.ObserveTurn(d.DifficultyBefore, a.Correct, a.ResponseTimeSeconds, d.ScoreAfter, d.DifficultyAfter)
	if d.Transitioned {
		s.metrics.ObserveTransition(d.DifficultyBefore, d.DifficultyAfter)
	}
	return nil
}

// StoreSink appends a turn event to the session log.
type StoreSink struct {
	repo store.EventRepo
}

// NewStoreSink creates a StoreSink.
func NewStoreSink(repo store.EventRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) RecordAttempt(ctx context.Context, a Attempt) error {
	d := a.Decision
	data := store.TurnEventData{
		SessionID:        a.SessionID,
		Turn:             d.Turn,
		Difficulty:       d.DifficultyBefore.String(),
		LearnerAnswer:    a.Answer,
		Correct:          a.Correct,
		ResponseTimeSecs: a.ResponseTimeSeconds,
		ScoreDelta:       d.ScoreDelta,
		DecayedScore:     d.DecayedScore,
		ScoreAfter:       d.ScoreAfter,
		DifficultyAfter:  d.DifficultyAfter.String(),
		Transitioned:     d.Transitioned,
		Reset:            d.Reset,
		Rationale:        d.Rationale,
	}
	if a.Puzzle != nil {
		data.Question = a.Puzzle.Question
		data.CorrectAnswer = a.Puzzle.Answer
	}
	if err := s.repo.AppendTurnEvent(ctx, data); err != nil {
		return fmt.Errorf("store turn %d: %w", d.Turn, err)
	}
	return nil
}
