package session

import "github.com/abhisek/mathadventures/internal/puzzle"

// puzzleReadyMsg is sent when the next puzzle has been generated.
type puzzleReadyMsg struct {
	Puzzle *puzzle.Puzzle
	Err    error
}

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}
