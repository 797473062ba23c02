package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendTurnEvent(ctx context.Context, data TurnEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO turn_events (
		sequence, timestamp, session_id, turn, difficulty, question, correct_answer,
		learner_answer, correct, response_time_secs, score_delta, decayed_score, score_after,
		difficulty_after, transitioned, reset, rationale
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, nowMillis(), data.SessionID, data.Turn, data.Difficulty, data.Question,
		data.CorrectAnswer, data.LearnerAnswer, data.Correct, data.ResponseTimeSecs,
		data.ScoreDelta, data.DecayedScore, data.ScoreAfter, data.DifficultyAfter,
		data.Transitioned, data.Reset, data.Rationale,
	)
	if err != nil {
		return fmt.Errorf("save turn event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionTurns(ctx context.Context, sessionID string) ([]TurnEventData, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT timestamp, session_id, turn, difficulty, question,
			correct_answer, learner_answer, correct, response_time_secs, score_delta,
			decayed_score, score_after, difficulty_after, transitioned, reset, rationale
		FROM turn_events WHERE session_id = ? ORDER BY turn, sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []TurnEventData
	for rows.Next() {
		var (
			t  TurnEventData
			ts int64
		)
		if err := rows.Scan(&ts, &t.SessionID, &t.Turn, &t.Difficulty, &t.Question,
			&t.CorrectAnswer, &t.LearnerAnswer, &t.Correct, &t.ResponseTimeSecs, &t.ScoreDelta,
			&t.DecayedScore, &t.ScoreAfter, &t.DifficultyAfter, &t.Transitioned, &t.Reset,
			&t.Rationale); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return out, nil
}
