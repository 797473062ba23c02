package puzzle

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

var exprRe = regexp.MustCompile(`^\(?(\d+) ([-+×÷]) (\d+)\)?(?: × (\d+))?$`)

// evaluate recomputes a template question independently of the generator.
func evaluate(t *testing.T, q string) int {
	t.Helper()
	m := exprRe.FindStringSubmatch(q)
	require.NotNil(t, m, "unexpected question format %q", q)

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[3])
	var v int
	switch m[2] {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "×":
		v = a * b
	case "÷":
		require.Zero(t, a%b, "division must be exact: %q", q)
		v = a / b
	}
	if m[4] != "" {
		c, _ := strconv.Atoi(m[4])
		v *= c
	}
	return v
}

func TestTemplateGenerator_AnswersAndRanges(t *testing.T) {
	g := NewSeededTemplateGenerator(7)
	ctx := context.Background()

	for _, level := range difficulty.All() {
		kinds := map[Kind]bool{}
		for range 500 {
			p, err := g.Generate(ctx, level)
			require.NoError(t, err)
			assert.Equal(t, level, p.Difficulty)
			assert.Equal(t, p.Question, p.Expression)
			assert.Equal(t, evaluate(t, p.Question), p.Answer, p.Question)
			assert.GreaterOrEqual(t, p.Answer, 0, p.Question)
			kinds[p.Kind] = true

			checkRanges(t, level, p)
		}

		switch level {
		case difficulty.Easy:
			assert.Len(t, kinds, 2)
		case difficulty.Medium:
			assert.Len(t, kinds, 3)
		case difficulty.Hard:
			assert.Len(t, kinds, 4)
		}
	}
}

func checkRanges(t *testing.T, level difficulty.Level, p *Puzzle) {
	t.Helper()
	ops := p.Operands
	in := func(v, lo, hi int) {
		assert.True(t, v >= lo && v <= hi, "%s %q: %d not in [%d, %d]", level, p.Question, v, lo, hi)
	}

	switch {
	case level == difficulty.Easy && p.Kind == KindAdd:
		in(ops[0], 1, 9)
		in(ops[1], 1, 9)
	case level == difficulty.Easy && p.Kind == KindSubtract:
		in(ops[0], 5, 9)
		in(ops[1], 1, ops[0])
	case level == difficulty.Medium && p.Kind == KindAdd:
		in(ops[0], 10, 50)
		in(ops[1], 10, 50)
	case level == difficulty.Medium && p.Kind == KindSubtract:
		in(ops[0], 20, 99)
		in(ops[1], 10, ops[0])
	case p.Kind == KindMultiply:
		in(ops[0], 2, 9)
		in(ops[1], 2, 12)
	case p.Kind == KindMultiStep:
		in(ops[0], 5, 15)
		in(ops[1], 5, 15)
		in(ops[2], 2, 8)
	case level == difficulty.Hard && p.Kind == KindAdd:
		in(ops[0], 100, 500)
		in(ops[1], 100, 500)
	case level == difficulty.Hard && p.Kind == KindSubtract:
		in(ops[0], 200, 999)
		in(ops[1], 100, ops[0])
	case p.Kind == KindDivide:
		in(p.Answer, 5, 20)
		in(ops[1], 3, 12)
	default:
		t.Fatalf("unexpected kind %s at %s", p.Kind, level)
	}
}

func TestTemplateGenerator_Deterministic(t *testing.T) {
	a := NewSeededTemplateGenerator(42)
	b := NewSeededTemplateGenerator(42)
	for range 20 {
		pa, err := a.Generate(context.Background(), difficulty.Hard)
		require.NoError(t, err)
		pb, err := b.Generate(context.Background(), difficulty.Hard)
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestTemplateGenerator_UnknownLevel(t *testing.T) {
	_, err := NewTemplateGenerator(nil).Generate(context.Background(), difficulty.Level(9))
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}

func TestCheckAnswer(t *testing.T) {
	p := &Puzzle{Question: "3 + 4", Answer: 7}

	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"7", true, false},
		{"  7 ", true, false},
		{"007", true, false},
		{"8", false, false},
		{"-7", false, false},
		{"", false, true},
		{"seven", false, true},
		{"7.0", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := CheckAnswer(tt.input, p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAnswer("   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}
