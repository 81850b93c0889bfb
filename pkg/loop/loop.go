// Package loop runs the conversation loop: each turn draws a strategy,
// generates from the joined working set, and keeps only the newest few
// entries.
package loop

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
)

const (
	// MaxWorkingSet is the number of entries kept after each turn.
	MaxWorkingSet = 3

	// Separator joins working set entries into one input.
	Separator = "\n---\n"
)

// State is the loop's working set and turn counter.
type State struct {
	WorkingSet []string
	Turn       int
}

// NewState seeds a working set with one entry.
func NewState(seed string) State {
	return State{WorkingSet: []string{seed}}
}

// Input returns the working set joined with Separator.
func (s State) Input() string {
	return strings.Join(s.WorkingSet, Separator)
}

// Output is the result of one turn.
type Output struct {
	Turn     int
	Strategy Strategy
	Text     string
}

// Runner runs one strategy over an input and returns the generated text.
type Runner interface {
	Run(ctx context.Context, strategy Strategy, input string) (string, error)
}

var defaultSampler = mustSampler(DefaultPolicy)

func mustSampler(p Policy) *Sampler {
	s, err := NewSampler(p)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSampler returns the sampler for DefaultPolicy.
func DefaultSampler() *Sampler {
	return defaultSampler
}

// Turn advances state by one turn using DefaultPolicy.
func Turn(ctx context.Context, state State, rng *rand.Rand, runner Runner) (State, Output, error) {
	return defaultSampler.Turn(ctx, state, rng, runner)
}

// Turn advances state by one turn. The returned state has its own working
// set; state is not modified.
func (s *Sampler) Turn(ctx context.Context, state State, rng *rand.Rand, runner Runner) (State, Output, error) {
	strategy := s.Draw(rng)

	text, err := runner.Run(ctx, strategy, state.Input())
	if err != nil {
		return state, Output{}, err
	}

	ws := append(slices.Clone(state.WorkingSet), text)
	if len(ws) > MaxWorkingSet {
		ws = ws[1:]
	}

	next := State{WorkingSet: ws, Turn: state.Turn + 1}
	return next, Output{Turn: next.Turn, Strategy: strategy, Text: text}, nil
}

// Run alternates Turn and trigger.Await until the context is cancelled or
// the trigger fails. onTurn, if set, sees each output before the wait. A
// trigger reporting io.EOF ends the loop without error.
func Run(ctx context.Context, state State, rng *rand.Rand, runner Runner, trigger Trigger, onTurn func(Output)) (State, error) {
	return defaultSampler.Run(ctx, state, rng, runner, trigger, onTurn)
}

// Run is the sampler-specific form of the package-level Run.
func (s *Sampler) Run(ctx context.Context, state State, rng *rand.Rand, runner Runner, trigger Trigger, onTurn func(Output)) (State, error) {
	for {
		next, out, err := s.Turn(ctx, state, rng, runner)
		if err != nil {
			return state, err
		}
		state = next

		if onTurn != nil {
			onTurn(out)
		}

		if err := trigger.Await(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			return state, err
		}
	}
}
