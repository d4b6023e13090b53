// Package population holds the farm records of a scenario: their identity,
// capacity, adjacency and disease compartments.
//
// Farms live in a single arena ordered as they were loaded. Engines address
// farms by index into that arena and resolve external FarmIDs through the
// map built once at seeding time.
package population

import (
	"fmt"
	"strings"

	"github.com/okian/epiherd/internal/domain/parameters"
)

// FarmID is the externally meaningful identifier of a farm.
type FarmID uint32

// Species tags the kind of animals kept on a farm.
type Species uint8

// Known species.
const (
	Cattle Species = iota
	Pig
	Sheep
)

func (s Species) String() string {
	switch s {
	case Cattle:
		return "cattle"
	case Pig:
		return "pig"
	case Sheep:
		return "sheep"
	default:
		return fmt.Sprintf("species(%d)", uint8(s))
	}
}

// ParseSpecies maps a name to a Species. An empty name means cattle.
func ParseSpecies(name string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cattle":
		return Cattle, nil
	case "pig", "pigs":
		return Pig, nil
	case "sheep":
		return Sheep, nil
	default:
		return 0, fmt.Errorf("%w: unknown species %q", ErrInvalidFarm, name)
	}
}

// Compartments is the (S, I, R) triple of a farm.
type Compartments struct {
	Susceptible int
	Infected    int
	Recovered   int
}

// Total returns S + I + R.
func (c Compartments) Total() int {
	return c.Susceptible + c.Infected + c.Recovered
}

// Farm is a single herd. Only Compartments changes during a run.
type Farm struct {
	ID            FarmID
	Species       Species
	HerdSize      int
	AdjacentFarms []FarmID

	Disease                parameters.DiseaseParameters
	ContactRate            parameters.ContactRate
	ExogenousInfectionRate parameters.Rate

	Compartments
}

// Record is what a population loader produces for each farm.
type Record struct {
	ID            FarmID
	Species       Species
	HerdSize      int
	AdjacentFarms []FarmID
}

// Loader produces the ordered farm records of a population.
type Loader interface {
	Load() ([]Record, error)
}
