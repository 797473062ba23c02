package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo backed by SQLite and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events (
		sequence, timestamp, session_id, subject, mode, action,
		turns_played, correct_answers, transitions, final_difficulty, final_pscore, duration_ms
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, nowMillis(), data.SessionID, data.Subject, data.Mode, data.Action,
		data.TurnsPlayed, data.CorrectAnswers, data.Transitions, data.FinalDifficulty,
		data.FinalPScore, data.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) ListSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	var (
		where []string
		args  []any
	)
	where = append(where, "s.action = 'start'")
	if opts.Subject != "" {
		where = append(where, "s.subject = ?")
		args = append(args, opts.Subject)
	}
	if !opts.From.IsZero() {
		where = append(where, "s.timestamp >= ?")
		args = append(args, opts.From.UnixMilli())
	}

	query := `SELECT s.session_id, s.subject, s.mode, s.timestamp,
			e.id IS NOT NULL,
			COALESCE(e.turns_played, 0), COALESCE(e.correct_answers, 0), COALESCE(e.transitions, 0),
			COALESCE(e.final_difficulty, ''), COALESCE(e.final_pscore, 0), COALESCE(e.duration_ms, 0)
		FROM session_events s
		LEFT JOIN session_events e ON e.session_id = s.session_id AND e.action = 'end'
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY s.sequence DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec        SessionRecord
			startedAt  int64
			durationMs int64
		)
		if err := rows.Scan(&rec.SessionID, &rec.Subject, &rec.Mode, &startedAt, &rec.Ended,
			&rec.TurnsPlayed, &rec.CorrectAnswers, &rec.Transitions,
			&rec.FinalDifficulty, &rec.FinalPScore, &durationMs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedAt).UTC()
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *eventRepo) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range eventTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}
