// Package model contains the payloads handed from the engine to recorders.
package model

import (
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/scenariotime"
)

// InfectionEvent is a single between-herd transmission.
type InfectionEvent struct {
	Origin        population.FarmID
	Target        population.FarmID
	NewInfections int
}

// InfectionBatch groups a day's successful transmissions. BatchID counts
// non-empty days over the whole run, starting at 1.
type InfectionBatch struct {
	Tick    scenariotime.Time
	BatchID uint64
	Events  []InfectionEvent
}

// FarmState is one farm's compartments on a given day.
type FarmState struct {
	Tick        scenariotime.Time
	FarmID      population.FarmID
	Susceptible int
	Infected    int
	Recovered   int
}

// PrevalenceReport is the passive surveillance estimate for a day.
type PrevalenceReport struct {
	Tick               scenariotime.Time
	InfectedFarms      int
	ObservedFarms      int
	TotalFarms         int
	TruePrevalence     float64
	ObservedPrevalence float64
}

// Snapshot copies the compartments of every farm in store order.
func Snapshot(tick scenariotime.Time, farms []population.Farm) []FarmState {
	out := make([]FarmState, len(farms))
	for i := range farms {
		out[i] = FarmState{
			Tick:        tick,
			FarmID:      farms[i].ID,
			Susceptible: farms[i].Susceptible,
			Infected:    farms[i].Infected,
			Recovered:   farms[i].Recovered,
		}
	}
	return out
}
