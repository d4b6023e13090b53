package population

import (
	"fmt"

	"github.com/okian/epiherd/internal/domain/parameters"
)

// Defaults applied to every farm when the store is built.
type Defaults struct {
	Disease                parameters.DiseaseParameters
	ContactRate            parameters.ContactRate
	ExogenousInfectionRate parameters.Rate
}

// Store is the arena of farm records. The slice order is the iteration
// order every engine uses, so it is part of a scenario's reproducibility.
type Store struct {
	farms []Farm
	index map[FarmID]int
}

// NewStore validates records and builds the arena and the FarmID map.
// Every farm starts fully susceptible. Adjacency entries must refer to
// farms present in records.
func NewStore(records []Record, defaults Defaults) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyPopulation
	}

	s := &Store{
		farms: make([]Farm, len(records)),
		index: make(map[FarmID]int, len(records)),
	}
	for i, r := range records {
		if r.HerdSize < 0 {
			return nil, fmt.Errorf("%w: farm %d has negative herd size %d", ErrInvalidFarm, r.ID, r.HerdSize)
		}
		if _, dup := s.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateFarm, r.ID)
		}
		s.index[r.ID] = i
		s.farms[i] = Farm{
			ID:                     r.ID,
			Species:                r.Species,
			HerdSize:               r.HerdSize,
			AdjacentFarms:          append([]FarmID(nil), r.AdjacentFarms...),
			Disease:                defaults.Disease,
			ContactRate:            defaults.ContactRate,
			ExogenousInfectionRate: defaults.ExogenousInfectionRate,
			Compartments:           Compartments{Susceptible: r.HerdSize},
		}
	}

	for _, f := range s.farms {
		for _, adj := range f.AdjacentFarms {
			if _, ok := s.index[adj]; !ok {
				return nil, fmt.Errorf("%w: farm %d lists neighbour %d", ErrUnknownFarm, f.ID, adj)
			}
		}
	}
	return s, nil
}

// Len returns the number of farms. It never changes during a run.
func (s *Store) Len() int { return len(s.farms) }

// At returns the farm at index i for mutation.
func (s *Store) At(i int) *Farm { return &s.farms[i] }

// Farms exposes the arena in iteration order.
func (s *Store) Farms() []Farm { return s.farms }

// Index resolves a FarmID to its arena index.
func (s *Store) Index(id FarmID) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Lookup resolves a FarmID to its record.
func (s *Store) Lookup(id FarmID) (*Farm, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFarm, id)
	}
	return &s.farms[i], nil
}

// InfectedFarms counts farms with at least one infected animal.
func (s *Store) InfectedFarms() int {
	n := 0
	for i := range s.farms {
		if s.farms[i].Infected > 0 {
			n++
		}
	}
	return n
}

// Totals sums the compartments across all farms.
func (s *Store) Totals() Compartments {
	var c Compartments
	for i := range s.farms {
		c.Susceptible += s.farms[i].Susceptible
		c.Infected += s.farms[i].Infected
		c.Recovered += s.farms[i].Recovered
	}
	return c
}

// AnyInfected reports whether any farm has an active infection.
func (s *Store) AnyInfected() bool {
	for i := range s.farms {
		if s.farms[i].Infected > 0 {
			return true
		}
	}
	return false
}
