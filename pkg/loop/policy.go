package loop

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Strategy names how a turn turns the working set into new text.
type Strategy string

const (
	// Chatter answers a random reflective question about the working set.
	Chatter Strategy = "chatter"

	// Critic argues against statements generated about the working set.
	Critic Strategy = "critic"

	// Actor delivers one line of dialogue over statements generated about
	// the working set.
	Actor Strategy = "actor"

	// Compress distils the working set into a short metaphor.
	Compress Strategy = "compress"
)

// Strategies lists every known strategy.
func Strategies() []Strategy {
	return []Strategy{Chatter, Critic, Actor, Compress}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case Chatter, Critic, Actor, Compress:
		return true
	}
	return false
}

// Weighted pairs a strategy with a weight in the draw space.
type Weighted struct {
	Strategy Strategy
	Weight   int
}

// Policy is an ordered table of weighted strategies. A strategy may appear
// more than once; its probability is its summed weight over the total.
type Policy []Weighted

// DefaultPolicy draws from seven outcomes: 0, 4, 5 and 6 pick chatter, 1
// picks critic, 2 picks actor and 3 picks compress.
var DefaultPolicy = Policy{
	{Chatter, 1},
	{Critic, 1},
	{Actor, 1},
	{Compress, 1},
	{Chatter, 3},
}

// Total returns the size of the draw space.
func (p Policy) Total() int {
	total := 0
	for _, w := range p {
		total += w.Weight
	}
	return total
}

// Weights sums the weight of each strategy.
func (p Policy) Weights() map[Strategy]int {
	out := make(map[Strategy]int, len(p))
	for _, w := range p {
		out[w.Strategy] += w.Weight
	}
	return out
}

// ErrInvalidPolicy is returned by NewSampler for unusable policies.
var ErrInvalidPolicy = errors.New("invalid policy")

// Sampler draws strategies from a policy.
type Sampler struct {
	policy Policy
	total  int
}

// NewSampler validates p and returns a sampler for it.
func NewSampler(p Policy) (*Sampler, error) {
	for _, w := range p {
		if !w.Strategy.Valid() {
			return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidPolicy, w.Strategy)
		}
		if w.Weight < 0 {
			return nil, fmt.Errorf("%w: negative weight %d for %s", ErrInvalidPolicy, w.Weight, w.Strategy)
		}
	}

	total := p.Total()
	if total == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrInvalidPolicy)
	}

	return &Sampler{policy: p, total: total}, nil
}

// Draw picks one uniform outcome in [0, total) and returns the strategy whose
// cumulative weight range contains it.
func (s *Sampler) Draw(rng *rand.Rand) Strategy {
	return s.Outcome(rng.IntN(s.total))
}

// Outcome maps a draw in [0, total) to its strategy.
func (s *Sampler) Outcome(n int) Strategy {
	for _, w := range s.policy {
		if n < w.Weight {
			return w.Strategy
		}
		n -= w.Weight
	}
	// Unreachable for n in range.
	return s.policy[len(s.policy)-1].Strategy
}

// Total returns the size of the draw space.
func (s *Sampler) Total() int {
	return s.total
}
