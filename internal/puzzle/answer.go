package puzzle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyAnswer is returned by ParseAnswer for blank input.
var ErrEmptyAnswer = errors.New("empty answer")

// ParseAnswer reads a learner's integer answer. Surrounding whitespace and
// leading zeros are accepted.
func ParseAnswer(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrEmptyAnswer
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", input, err)
	}
	return int(n), nil
}

// CheckAnswer reports whether input is the correct answer to p. Input that
// is not an integer returns an error and should not count as a turn.
func CheckAnswer(input string, p *Puzzle) (bool, error) {
	n, err := ParseAnswer(input)
	if err != nil {
		return false, err
	}
	return n == p.Answer, nil
}
