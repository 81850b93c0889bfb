package llm

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Tier selects the request shape and the temperature range of a generation
// call.
type Tier int

const (
	// TierCompletion sends a single prompt string and reads choices[0].text.
	TierCompletion Tier = iota

	// TierChat sends a one-message list and reads choices[0].message.content.
	TierChat
)

func (t Tier) String() string {
	switch t {
	case TierCompletion:
		return "completion"
	case TierChat:
		return "chat"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// TemperatureRange returns the half-open interval [lo, hi) temperatures are
// drawn from.
func (t Tier) TemperatureRange() (lo, hi float64) {
	if t == TierChat {
		return 0.2, 0.8
	}
	return 0.2, 0.6
}

// Temperature draws a temperature for t from rng.
func (t Tier) Temperature(rng *rand.Rand) float64 {
	lo, hi := t.TemperatureRange()
	return lo + rng.Float64()*(hi-lo)
}

// TemperatureSource draws per-request temperatures for one tier. It is safe
// for concurrent use.
type TemperatureSource struct {
	tier Tier

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTemperatureSource creates a source for tier. A nil rng is replaced by a
// randomly seeded one.
func NewTemperatureSource(tier Tier, rng *rand.Rand) *TemperatureSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &TemperatureSource{tier: tier, rng: rng}
}

// Next returns the next temperature.
func (s *TemperatureSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier.Temperature(s.rng)
}

// Tier returns the tier temperatures are drawn for.
func (s *TemperatureSource) Tier() Tier {
	return s.tier
}
