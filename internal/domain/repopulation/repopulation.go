// Package repopulation restores herds to their nominal size after culling.
package repopulation

import (
	"math"

	"github.com/okian/epiherd/internal/domain/population"
)

// Rescale scales each farm's compartments proportionally back to its herd
// size. Infected and recovered are rounded to the nearest integer and
// susceptible takes the remainder, so the compartments always sum to the herd
// size; if rounding overshoots, recovered gives up the excess. A farm with no
// animals left is restocked as fully susceptible. It returns the number of
// farms whose compartments changed and draws no random numbers.
func Rescale(store *population.Store) int {
	changed := 0
	for i := 0; i < store.Len(); i++ {
		f := store.At(i)
		total := f.Total()
		if total == f.HerdSize {
			continue
		}
		if total <= 0 {
			f.Compartments = population.Compartments{Susceptible: f.HerdSize}
			changed++
			continue
		}

		scale := float64(f.HerdSize) / float64(total)
		infected := min(int(math.Round(float64(f.Infected)*scale)), f.HerdSize)
		recovered := min(int(math.Round(float64(f.Recovered)*scale)), f.HerdSize-infected)
		f.Compartments = population.Compartments{
			Susceptible: f.HerdSize - infected - recovered,
			Infected:    infected,
			Recovered:   recovered,
		}
		changed++
	}
	return changed
}
