package populationfile

import (
	"fmt"

	"github.com/okian/epiherd/internal/domain/population"
)

// Ring generates n farms of equal herd size where farm i is adjacent to
// farms i-1 and i+1, wrapping around. Farm ids start at 1. A ring of two
// farms gives each farm the other as its only neighbour; a ring of one has
// no neighbours.
type Ring struct {
	Farms    int
	HerdSize int
	Species  population.Species
}

// Load implements population.Loader.
func (r Ring) Load() ([]population.Record, error) {
	if r.Farms < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrRingSize, r.Farms)
	}

	records := make([]population.Record, r.Farms)
	for i := range records {
		id := population.FarmID(i + 1)
		var adjacent []population.FarmID
		switch r.Farms {
		case 1:
		case 2:
			adjacent = []population.FarmID{population.FarmID(2 - i)}
		default:
			prev := population.FarmID((i+r.Farms-1)%r.Farms + 1)
			next := population.FarmID((i+1)%r.Farms + 1)
			adjacent = []population.FarmID{prev, next}
		}
		records[i] = population.Record{
			ID:            id,
			Species:       r.Species,
			HerdSize:      r.HerdSize,
			AdjacentFarms: adjacent,
		}
	}
	return records, nil
}
