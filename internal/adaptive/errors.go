package adaptive

import (
	"errors"
	"fmt"
)

// ErrInvalidTurn is the sentinel every *ErrInvalidInput unwraps to.
var ErrInvalidTurn = errors.New("invalid turn")

// ErrInvalidInput indicates malformed turn data. The engine state is left
// untouched when it is returned.
type ErrInvalidInput struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ErrInvalidInput) Unwrap() error { return ErrInvalidTurn }
