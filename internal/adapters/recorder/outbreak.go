package recorder

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/epiherd/internal/domain/model"
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/scenariotime"
	"github.com/okian/epiherd/pkg/logger"
)

// OutbreakPoint is the number of infected farms on a day when at least one
// farm became newly infected.
type OutbreakPoint struct {
	Tick          scenariotime.Time
	InfectedFarms int
}

// OutbreakTracker follows the set of farms with infected animals and keeps
// a history entry for every day on which that set gained a member.
type OutbreakTracker struct {
	mu      sync.Mutex
	active  map[population.FarmID]struct{}
	next    map[population.FarmID]struct{}
	history []OutbreakPoint
	logger  logger.Logger
}

// NewOutbreakTracker creates a tracker. A nil logger uses the global one.
func NewOutbreakTracker(l logger.Logger) *OutbreakTracker {
	if l == nil {
		l = logger.Get().Named("outbreaks")
	}
	return &OutbreakTracker{
		active: make(map[population.FarmID]struct{}),
		next:   make(map[population.FarmID]struct{}),
		logger: l,
	}
}

// RecordFarmStates implements Recorder. States are expected to belong to a
// single tick.
func (t *OutbreakTracker) RecordFarmStates(ctx context.Context, states []model.FarmState) error {
	if len(states) == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.next)
	grew := false
	for i := range states {
		if states[i].Infected <= 0 {
			continue
		}
		t.next[states[i].FarmID] = struct{}{}
		if _, ok := t.active[states[i].FarmID]; !ok {
			grew = true
		}
	}
	t.active, t.next = t.next, t.active

	if grew {
		p := OutbreakPoint{Tick: states[0].Tick, InfectedFarms: len(t.active)}
		t.history = append(t.history, p)
		t.logger.Info(ctx, "new farms infected",
			logger.Uint64("tick", p.Tick),
			logger.Int("infected_farms", p.InfectedFarms),
		)
	}
	return nil
}

// RecordInfectionBatch implements Recorder.
func (t *OutbreakTracker) RecordInfectionBatch(context.Context, *model.InfectionBatch) error {
	return nil
}

// RecordPrevalence implements Recorder.
func (t *OutbreakTracker) RecordPrevalence(context.Context, model.PrevalenceReport) error {
	return nil
}

// Close implements Recorder.
func (t *OutbreakTracker) Close() error { return nil }

// History returns the recorded outbreak points in tick order.
func (t *OutbreakTracker) History() []OutbreakPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.history)
}
