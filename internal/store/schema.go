package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Every event table carries the global sequence and a UTC timestamp in
// unix milliseconds.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL CHECK (action IN ('start', 'end')),
		turns_played INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		transitions INTEGER NOT NULL DEFAULT 0,
		final_difficulty TEXT NOT NULL DEFAULT '',
		final_pscore REAL NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS turn_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		difficulty TEXT NOT NULL,
		question TEXT NOT NULL,
		correct_answer INTEGER NOT NULL,
		learner_answer TEXT NOT NULL,
		correct INTEGER NOT NULL,
		response_time_secs REAL NOT NULL,
		score_delta REAL NOT NULL,
		decayed_score REAL NOT NULL,
		score_after REAL NOT NULL,
		difficulty_after TEXT NOT NULL,
		transitioned INTEGER NOT NULL,
		reset INTEGER NOT NULL,
		rationale TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_turn_events_session ON turn_events (session_id, turn)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

// eventTables lists the tables cleared by Reset.
var eventTables = []string{"session_events", "turn_events", "llm_request_events"}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
