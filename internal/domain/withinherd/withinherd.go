// Package withinherd advances each farm's SIR compartments by one day.
//
// New infections follow density-dependent transmission normalised by herd
// size, rate * S * I / N, and recoveries follow rate * I. Both expectations
// are turned into counts by stochastic rounding, infections first.
package withinherd

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/scenariotime"
)

// Runner executes fn for every index in [0, n). Implementations may run
// indices concurrently; fn only touches the farm at its own index.
type Runner interface {
	Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithParallel switches the model to per-farm random streams derived from
// seed, farm id and day, executed by runner. Outcomes then depend only on
// the seed and not on how runner partitions the farms.
func WithParallel(runner Runner, seed uint64) Option {
	return func(m *Model) {
		if runner != nil {
			m.runner = runner
			m.seed = seed
		}
	}
}

// Model is the within-herd SIR process.
type Model struct {
	runner Runner
	seed   uint64
}

// New creates a Model. Without options it runs sequentially on the shared
// generator passed to Update.
func New(opts ...Option) *Model {
	m := &Model{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Parallel reports whether per-farm streams are in use.
func (m *Model) Parallel() bool { return m.runner != nil }

// Update advances every farm by one day. In sequential mode draws are taken
// from rng in store order; in parallel mode rng is not consumed.
func (m *Model) Update(ctx context.Context, store *population.Store, rng *rand.Rand, day scenariotime.Time) error {
	if m.runner == nil {
		for i := 0; i < store.Len(); i++ {
			if err := Step(store.At(i), rng); err != nil {
				return err
			}
		}
		return nil
	}

	return m.runner.Run(ctx, store.Len(), func(_ context.Context, i int) error {
		f := store.At(i)
		return Step(f, parameters.NewStream(m.seed, uint64(f.ID), day))
	})
}

// Step advances a single farm by one day, drawing exactly two values from
// src: one for infections, then one for recoveries. Recoveries are capped at
// the animals infected at the start of the day.
func Step(f *population.Farm, src rand.Source) error {
	var expectedInfections float64
	if f.HerdSize > 0 {
		expectedInfections = float64(f.Disease.InfectionRate) *
			float64(f.Susceptible) * float64(f.Infected) / float64(f.HerdSize)
	}
	expectedRecoveries := float64(f.Disease.RecoveryRate) * float64(f.Infected)

	if !finite(expectedInfections) || !finite(expectedRecoveries) {
		return fmt.Errorf("%w: farm %d has non-finite expectations (infections %v, recoveries %v)",
			ErrInvariant, f.ID, expectedInfections, expectedRecoveries)
	}

	if expectedInfections >= float64(f.Susceptible)+1 {
		return fmt.Errorf("%w: farm %d cannot infect %.0f animals with %d susceptible",
			ErrInvariant, f.ID, expectedInfections, f.Susceptible)
	}
	// Only animals infected at the start of the day can recover, which
	// keeps S+I+R constant for any recovery rate.
	expectedRecoveries = math.Min(expectedRecoveries, float64(f.Infected))

	newInfections := parameters.RoundStochastic(src, expectedInfections)
	newRecoveries := parameters.RoundStochastic(src, expectedRecoveries)

	if newInfections > f.Susceptible {
		return fmt.Errorf("%w: farm %d cannot infect %d animals with %d susceptible",
			ErrInvariant, f.ID, newInfections, f.Susceptible)
	}

	f.Susceptible = saturatingSub(f.Susceptible, newInfections)
	f.Infected = saturatingSub(f.Infected, newRecoveries)
	f.Infected = saturatingAdd(f.Infected, newInfections)
	f.Recovered = saturatingAdd(f.Recovered, newRecoveries)
	return nil
}

// SeedRandom moves one susceptible animal to infected on a uniformly chosen
// farm and returns its id.
func SeedRandom(store *population.Store, rng *rand.Rand) (population.FarmID, error) {
	if store.Len() == 0 {
		return 0, population.ErrEmptyPopulation
	}
	f := store.At(rng.IntN(store.Len()))
	if f.Susceptible < 1 {
		return 0, fmt.Errorf("%w: farm %d", ErrNoSusceptible, f.ID)
	}
	f.Susceptible--
	f.Infected = saturatingAdd(f.Infected, 1)
	return f.ID, nil
}

// SeedEverywhere moves one susceptible animal to infected on every farm.
// Nothing is changed unless every farm has a susceptible animal.
func SeedEverywhere(store *population.Store) error {
	if store.Len() == 0 {
		return population.ErrEmptyPopulation
	}
	for i := 0; i < store.Len(); i++ {
		if f := store.At(i); f.Susceptible < 1 {
			return fmt.Errorf("%w: farm %d", ErrNoSusceptible, f.ID)
		}
	}
	for i := 0; i < store.Len(); i++ {
		f := store.At(i)
		f.Susceptible--
		f.Infected = saturatingAdd(f.Infected, 1)
	}
	return nil
}

// ApplyExogenous moves round(S * rate) animals from susceptible to infected
// on every farm with a positive exogenous infection rate, provided more
// susceptibles remain than would be infected. The count is compared as a
// float so huge rates skip the farm instead of overflowing. No random
// numbers are drawn. It returns the number of animals infected.
func ApplyExogenous(store *population.Store) int {
	total := 0
	for i := 0; i < store.Len(); i++ {
		f := store.At(i)
		if f.ExogenousInfectionRate <= 0 {
			continue
		}
		expected := math.Round(float64(f.Susceptible) * float64(f.ExogenousInfectionRate))
		if !(expected < float64(f.Susceptible)) {
			continue
		}
		delta := int(expected)
		f.Susceptible -= delta
		f.Infected = saturatingAdd(f.Infected, delta)
		total += delta
	}
	return total
}

func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
