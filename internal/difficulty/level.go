package difficulty

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLevel is returned when a difficulty name cannot be parsed.
var ErrUnknownLevel = errors.New("unknown difficulty level")

// Level is an ordered difficulty tier. The zero value is Easy.
type Level int

const (
	Easy Level = iota
	Medium
	Hard
)

// Lowest and Highest bound every transition.
const (
	Lowest  = Easy
	Highest = Hard
)

// All returns every level in ascending order.
func All() []Level {
	return []Level{Easy, Medium, Hard}
}

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= Lowest && l <= Highest
}

// Up returns the next harder level, or l itself at the ceiling.
func (l Level) Up() Level {
	if l >= Highest {
		return Highest
	}
	return l + 1
}

// Down returns the next easier level, or l itself at the floor.
func (l Level) Down() Level {
	if l <= Lowest {
		return Lowest
	}
	return l - 1
}

// Parse converts a case-insensitive level name into a Level.
func Parse(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
