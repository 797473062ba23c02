// Package puzzle produces arithmetic puzzles scaled to a difficulty level.
package puzzle

import (
	"context"
	"errors"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

// ErrUnknownDifficulty is returned when asked for a level with no templates.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Kind identifies the template a puzzle was built from.
type Kind string

const (
	KindAdd       Kind = "add"
	KindSubtract  Kind = "subtract"
	KindMultiply  Kind = "multiply"
	KindMultiStep Kind = "multi-step"
	KindDivide    Kind = "divide"
)

// Puzzle is a single question with its integer answer.
type Puzzle struct {
	// Question is the prompt shown to the learner, e.g. "(7 + 9) × 3".
	Question string

	Answer     int
	Difficulty difficulty.Level
	Kind       Kind

	// Operands lists the numbers in the expression, left to right.
	Operands []int

	// Expression is the bare arithmetic form. It equals Question unless
	// the puzzle was reworded as a story.
	Expression string
}

// Generator produces puzzles for a difficulty level.
type Generator interface {
	Generate(ctx context.Context, level difficulty.Level) (*Puzzle, error)
}
