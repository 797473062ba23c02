package puzzle

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

// TemplateGenerator builds puzzles from fixed per-level templates.
//
//	Easy:   a + b (1-9), a - b (a 5-9, b 1..a)
//	Medium: a + b (10-50), a - b (a 20-99, b 10..a), a × b (2-9 × 2-12)
//	Hard:   (a + b) × c, three-digit + or -, whole-number division
//
// A TemplateGenerator is not safe for concurrent use.
type TemplateGenerator struct {
	rng *rand.Rand
}

// NewTemplateGenerator returns a generator drawing from rng. A nil rng
// uses a randomly seeded source.
func NewTemplateGenerator(rng *rand.Rand) *TemplateGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &TemplateGenerator{rng: rng}
}

// NewSeededTemplateGenerator returns a deterministic generator.
func NewSeededTemplateGenerator(seed uint64) *TemplateGenerator {
	return NewTemplateGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (g *TemplateGenerator) Generate(_ context.Context, level difficulty.Level) (*Puzzle, error) {
	var p *Puzzle
	switch level {
	case difficulty.Easy:
		p = g.easy()
	case difficulty.Medium:
		p = g.medium()
	case difficulty.Hard:
		p = g.hard()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDifficulty, level)
	}
	p.Difficulty = level
	p.Expression = p.Question
	return p, nil
}

// between returns a uniform integer in [lo, hi].
func (g *TemplateGenerator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *TemplateGenerator) easy() *Puzzle {
	if g.rng.IntN(2) == 0 {
		return add(g.between(1, 9), g.between(1, 9))
	}
	a := g.between(5, 9)
	return subtract(a, g.between(1, a))
}

func (g *TemplateGenerator) medium() *Puzzle {
	switch g.rng.IntN(3) {
	case 0:
		return add(g.between(10, 50), g.between(10, 50))
	case 1:
		a := g.between(20, 99)
		return subtract(a, g.between(10, a))
	default:
		a, b := g.between(2, 9), g.between(2, 12)
		return &Puzzle{
			Question: fmt.Sprintf("%d × %d", a, b),
			Answer:   a * b,
			Kind:     KindMultiply,
			Operands: []int{a, b},
		}
	}
}

func (g *TemplateGenerator) hard() *Puzzle {
	switch g.rng.IntN(3) {
	case 0:
		a, b, c := g.between(5, 15), g.between(5, 15), g.between(2, 8)
		return &Puzzle{
			Question: fmt.Sprintf("(%d + %d) × %d", a, b, c),
			Answer:   (a + b) * c,
			Kind:     KindMultiStep,
			Operands: []int{a, b, c},
		}
	case 1:
		if g.rng.IntN(2) == 0 {
			return add(g.between(100, 500), g.between(100, 500))
		}
		a := g.between(200, 999)
		return subtract(a, g.between(100, a))
	default:
		quotient, divisor := g.between(5, 20), g.between(3, 12)
		dividend := quotient * divisor
		return &Puzzle{
			Question: fmt.Sprintf("%d ÷ %d", dividend, divisor),
			Answer:   quotient,
			Kind:     KindDivide,
			Operands: []int{dividend, divisor},
		}
	}
}

func add(a, b int) *Puzzle {
	return &Puzzle{
		Question: fmt.Sprintf("%d + %d", a, b),
		Answer:   a + b,
		Kind:     KindAdd,
		Operands: []int{a, b},
	}
}

func subtract(a, b int) *Puzzle {
	return &Puzzle{
		Question: fmt.Sprintf("%d - %d", a, b),
		Answer:   a - b,
		Kind:     KindSubtract,
		Operands: []int{a, b},
	}
}
