// Package learner models who answers puzzles in a session.
package learner

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/abhisek/mathadventures/internal/difficulty"
	"github.com/abhisek/mathadventures/internal/puzzle"
)

// Response is a learner's answer to one puzzle.
type Response struct {
	Answer              string
	ResponseTimeSeconds float64
}

// Responder answers puzzles.
type Responder interface {
	Respond(ctx context.Context, p *puzzle.Puzzle) (Response, error)
}

// Profile describes a simulated learner at one difficulty level.
type Profile struct {
	MinSeconds float64
	MaxSeconds float64

	// Accuracy is the probability of a correct answer.
	Accuracy float64
}

// DefaultProfiles models a learner who is comfortable at Easy and
// increasingly slow and error-prone above it.
func DefaultProfiles() map[difficulty.Level]Profile {
	return map[difficulty.Level]Profile{
		difficulty.Easy:   {MinSeconds: 2, MaxSeconds: 6, Accuracy: 0.85},
		difficulty.Medium: {MinSeconds: 4, MaxSeconds: 10, Accuracy: 0.70},
		difficulty.Hard:   {MinSeconds: 6, MaxSeconds: 15, Accuracy: 0.55},
	}
}

// Simulated is a synthetic Responder. Correct answers are quicker than the
// level's base time, wrong ones slower. It never sleeps.
//
// A Simulated is not safe for concurrent use.
type Simulated struct {
	rng      *rand.Rand
	profiles map[difficulty.Level]Profile
}

// NewSimulated returns a simulated learner seeded with seed.
func NewSimulated(seed uint64) *Simulated {
	return &Simulated{
		rng:      rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)),
		profiles: DefaultProfiles(),
	}
}

// WithProfile overrides the behavior at one level.
func (s *Simulated) WithProfile(level difficulty.Level, p Profile) *Simulated {
	s.profiles[level] = p
	return s
}

func (s *Simulated) Respond(ctx context.Context, p *puzzle.Puzzle) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	prof, ok := s.profiles[p.Difficulty]
	if !ok {
		prof = s.profiles[difficulty.Hard]
	}
	base := s.uniform(prof.MinSeconds, prof.MaxSeconds)

	if s.rng.Float64() < prof.Accuracy {
		return Response{
			Answer:              strconv.Itoa(p.Answer),
			ResponseTimeSeconds: base * s.uniform(0.7, 1.0),
		}, nil
	}

	return Response{
		Answer:              strconv.Itoa(s.wrongAnswer(p.Answer)),
		ResponseTimeSeconds: base * s.uniform(1.0, 1.4),
	}, nil
}

// wrongAnswer returns a plausible mistake: a small slip half of the time,
// otherwise a scaling error. The result never equals correct.
func (s *Simulated) wrongAnswer(correct int) int {
	var wrong int
	if s.rng.IntN(2) == 0 {
		slips := [...]int{-2, -1, 1, 2}
		wrong = correct + slips[s.rng.IntN(len(slips))]
	} else {
		wrong = int(math.Trunc(float64(correct) * s.uniform(0.5, 1.5)))
	}
	if wrong == correct {
		wrong = correct + 1
	}
	return wrong
}

func (s *Simulated) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
