// Package surveillance implements the regulators that detect outbreaks.
//
// Active surveillance tests infected farms every day and suppresses
// detected outbreaks. Passive surveillance only estimates prevalence.
package surveillance

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
)

// CullingMode decides where animals removed by active surveillance go.
type CullingMode uint8

const (
	// Vanish removes culled animals from the farm entirely, so S+I+R drops
	// below the herd size.
	Vanish CullingMode = iota
	// CreditRecovered moves culled animals to the recovered compartment.
	CreditRecovered
)

func (m CullingMode) String() string {
	if m == CreditRecovered {
		return "recovered"
	}
	return "vanish"
}

// ParseCullingMode accepts "vanish" or "recovered".
func ParseCullingMode(name string) (CullingMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vanish":
		return Vanish, nil
	case "recovered":
		return CreditRecovered, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrCullingMode, name)
	}
}

// eliminationProbability is the fair coin deciding between eliminating an
// outbreak and scaling it down.
const eliminationProbability parameters.Probability = 0.5

// ActiveOption applies a configuration option to Active.
type ActiveOption func(*Active)

// WithCullingMode sets where culled animals go.
func WithCullingMode(mode CullingMode) ActiveOption {
	return func(a *Active) {
		a.culling = mode
	}
}

// Active is the active surveillance regulator.
type Active struct {
	detectionRate       parameters.Rate
	remainingProportion parameters.Probability
	culling             CullingMode
}

// NewActive creates the regulator. detectionRate is per infected animal;
// remainingProportion is the share of infected animals left after a
// detection that did not eliminate the outbreak.
func NewActive(detectionRate parameters.Rate, remainingProportion parameters.Probability, opts ...ActiveOption) *Active {
	a := &Active{
		detectionRate:       detectionRate,
		remainingProportion: remainingProportion,
		culling:             Vanish,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ActiveResult summarises one day of active surveillance.
type ActiveResult struct {
	Detections   int
	FullCulls    int
	PartialCulls int
	Removed      int
}

// Update tests every infected farm in store order. Per infected farm it
// draws one Poisson detection count; on detection one coin flip follows,
// and a scaled-down outbreak takes one more draw for stochastic rounding.
// Farms without infected animals draw nothing.
func (a *Active) Update(store *population.Store, rng *rand.Rand) ActiveResult {
	var res ActiveResult
	for i := 0; i < store.Len(); i++ {
		f := store.At(i)
		if f.Infected <= 0 {
			continue
		}
		if parameters.Poisson(rng, float64(f.Infected)*float64(a.detectionRate)) == 0 {
			continue
		}
		res.Detections++

		before := f.Infected
		if parameters.Bernoulli(rng, eliminationProbability) {
			f.Infected = 0
			res.FullCulls++
		} else {
			f.Infected = parameters.RoundStochastic(rng, float64(before)*float64(a.remainingProportion))
			res.PartialCulls++
		}

		removed := before - f.Infected
		res.Removed += removed
		if a.culling == CreditRecovered {
			f.Recovered += removed
		}
	}
	return res
}
