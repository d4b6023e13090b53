// Package betweenherd spreads infection between farms through animal
// movements along the adjacency network.
//
// Each day runs in two phases. The selection phase copies the state of every
// infected farm that sends out animals today. The transmission phase then
// picks a destination for each of those origins and, on success, mutates the
// live destination farm. Infection pressure always comes from the copied
// origin state, while destinations are mutated one at a time in origin
// order so that a farm targeted twice sees its own updated susceptibles.
package betweenherd

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/epiherd/internal/domain/model"
	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/scenariotime"
)

// origin is the selection-phase copy of a sending farm.
type origin struct {
	id       population.FarmID
	infected int
	herdSize int
	adjacent []population.FarmID
}

// Model is the between-herd contact process. It owns the batch counter
// shared across the whole run.
type Model struct {
	batchID uint64

	// reused between days
	origins []origin
}

// New creates a Model with the batch counter at zero.
func New() *Model {
	return &Model{}
}

// BatchID returns the id of the most recently emitted batch, 0 if none.
func (m *Model) BatchID() uint64 { return m.batchID }

// Update runs one day of between-herd spread. It returns nil when no
// transmission succeeded. Random draws are taken in this order: one contact
// draw per infected farm in store order, then for each sending farm one
// destination draw followed by one transmission draw.
func (m *Model) Update(store *population.Store, rng *rand.Rand, tick scenariotime.Time) (*model.InfectionBatch, error) {
	m.origins = m.origins[:0]
	farms := store.Farms()
	for i := range farms {
		f := &farms[i]
		if f.Infected <= 0 {
			continue
		}
		if !parameters.Bernoulli(rng, parameters.Probability(f.ContactRate)) {
			continue
		}
		m.origins = append(m.origins, origin{
			id:       f.ID,
			infected: f.Infected,
			herdSize: f.HerdSize,
			adjacent: f.AdjacentFarms,
		})
	}

	var events []model.InfectionEvent
	for _, o := range m.origins {
		if o.infected > o.herdSize {
			return nil, fmt.Errorf("%w: farm %d has %d infected in a herd of %d",
				ErrInvariant, o.id, o.infected, o.herdSize)
		}
		if len(o.adjacent) == 0 {
			return nil, fmt.Errorf("%w: farm %d has no adjacent farms", ErrTopology, o.id)
		}

		targetID := o.adjacent[rng.IntN(len(o.adjacent))]
		pressure := parameters.Probability(float64(o.infected) / float64(o.herdSize))
		if !parameters.Bernoulli(rng, pressure) {
			continue
		}

		ti, ok := store.Index(targetID)
		if !ok {
			return nil, fmt.Errorf("%w: farm %d targets unknown farm %d", ErrTopology, o.id, targetID)
		}
		target := store.At(ti)
		if target.Susceptible < 1 {
			continue
		}
		target.Susceptible--
		target.Infected++
		events = append(events, model.InfectionEvent{Origin: o.id, Target: targetID, NewInfections: 1})
	}

	if len(events) == 0 {
		return nil, nil
	}
	m.batchID++
	return &model.InfectionBatch{Tick: tick, BatchID: m.batchID, Events: events}, nil
}
