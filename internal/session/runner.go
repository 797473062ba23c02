package session

import (
	"context"
	"fmt"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/learner"
	"github.com/abhisek/mathadventures/internal/puzzle"
)

// TurnReport describes one completed turn of a Runner.
type TurnReport struct {
	Puzzle   *puzzle.Puzzle
	Response learner.Response
	Correct  bool
	Decision adaptive.Decision
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTurnHook calls fn after every turn.
func WithTurnHook(fn func(TurnReport)) RunnerOption {
	return func(r *Runner) { r.onTurn = fn }
}

// Runner plays a session end to end with a non-interactive Responder.
type Runner struct {
	state     *SessionState
	responder learner.Responder
	onTurn    func(TurnReport)
}

// NewRunner creates a Runner for state answered by responder.
func NewRunner(state *SessionState, responder learner.Responder, opts ...RunnerOption) *Runner {
	r := &Runner{state: state, responder: responder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays up to turns turns. On context cancellation it stops early and
// returns the partial result along with the context error. The session end
// event is always recorded.
func (r *Runner) Run(ctx context.Context, turns int) (*Result, error) {
	s := r.state
	Start(ctx, s)

	var runErr error
	for range turns {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := r.turn(ctx); err != nil {
			runErr = err
			break
		}
	}

	// Record the end even when ctx is already canceled.
	return End(context.WithoutCancel(ctx), s), runErr
}

func (r *Runner) turn(ctx context.Context) error {
	s := r.state
	if err := NextPuzzle(ctx, s); err != nil {
		return err
	}

	resp, err := r.responder.Respond(ctx, s.CurrentPuzzle)
	if err != nil {
		return fmt.Errorf("turn %d: %w", s.Engine.Turns()+1, err)
	}

	d, err := Submit(ctx, s, resp.Answer, resp.ResponseTimeSeconds)
	if err != nil {
		return fmt.Errorf("turn %d: %w", s.Engine.Turns()+1, err)
	}

	if r.onTurn != nil {
		r.onTurn(TurnReport{
			Puzzle:   s.CurrentPuzzle,
			Response: resp,
			Correct:  s.LastAnswerCorrect,
			Decision: d,
		})
	}
	return nil
}
