package app

import (
	"github.com/okian/epiherd/internal/adapters/recorder"
	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/scenariotime"
	"github.com/okian/epiherd/internal/domain/surveillance"
	"github.com/okian/epiherd/internal/domain/withinherd"
	"github.com/okian/epiherd/pkg/logger"
)

// SeedMode selects how the initial infection is placed.
type SeedMode uint8

const (
	// SeedOneRandomFarm infects one animal on a uniformly chosen farm.
	SeedOneRandomFarm SeedMode = iota
	// SeedEveryFarm infects one animal on every farm.
	SeedEveryFarm
)

// DayReport is handed to the day hook after every simulated day.
type DayReport struct {
	Tick            scenariotime.Time
	Elapsed         scenariotime.Time
	MaxTimesteps    scenariotime.Time
	InfectedFarms   int
	InfectedAnimals int
	Transmissions   int
	Detections      int
}

// Option applies a configuration option to the Scenario.
type Option func(*Scenario)

// WithLogger sets a custom logger for the scenario.
func WithLogger(l logger.Logger) Option {
	return func(s *Scenario) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option {
	return func(s *Scenario) {
		s.seed = seed
	}
}

// WithDisease sets the within-herd infection and recovery rates of every farm.
func WithDisease(d parameters.DiseaseParameters) Option {
	return func(s *Scenario) {
		s.defaults.Disease = d
	}
}

// WithContactRate sets the daily contact probability of every farm.
func WithContactRate(c parameters.ContactRate) Option {
	return func(s *Scenario) {
		s.defaults.ContactRate = c
	}
}

// WithExogenousInfectionRate sets the exogenous infection rate of every farm.
func WithExogenousInfectionRate(r parameters.Rate) Option {
	return func(s *Scenario) {
		s.defaults.ExogenousInfectionRate = r
	}
}

// WithDetection sets the per-animal detection rate and the share of
// infected animals left after a partial cull.
func WithDetection(rate parameters.Rate, remaining parameters.Probability) Option {
	return func(s *Scenario) {
		s.detectionRate = rate
		s.remainingProportion = remaining
	}
}

// WithCullingMode sets where culled animals go.
func WithCullingMode(mode surveillance.CullingMode) Option {
	return func(s *Scenario) {
		s.cullingMode = mode
	}
}

// WithSeedMode sets how the initial infection is placed.
func WithSeedMode(mode SeedMode) Option {
	return func(s *Scenario) {
		s.seedMode = mode
	}
}

// WithTimesteps sets the first simulated day and the run length bounds.
// The run stops after max days, or once no farm is infected and at least
// min days have passed.
func WithTimesteps(start, minDays, maxDays scenariotime.Time) Option {
	return func(s *Scenario) {
		s.startTime = start
		s.minTimesteps = minDays
		s.maxTimesteps = maxDays
	}
}

// WithPassiveSchedule gates passive surveillance.
func WithPassiveSchedule(c scenariotime.Criterion) Option {
	return func(s *Scenario) {
		if c != nil {
			s.passiveSchedule = c
		}
	}
}

// WithRecordSchedule gates farm state recording.
func WithRecordSchedule(c scenariotime.Criterion) Option {
	return func(s *Scenario) {
		if c != nil {
			s.recordSchedule = c
		}
	}
}

// WithRepopulationSchedule gates repopulation by rescaling.
func WithRepopulationSchedule(c scenariotime.Criterion) Option {
	return func(s *Scenario) {
		if c != nil {
			s.repopulationSchedule = c
		}
	}
}

// WithRecorder adds a recorder. Recorders receive payloads in the order
// they were added and are closed when Run returns.
func WithRecorder(r recorder.Recorder) Option {
	return func(s *Scenario) {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
}

// WithRunner enables the parallel within-herd mode on runner.
func WithRunner(r withinherd.Runner) Option {
	return func(s *Scenario) {
		s.runner = r
	}
}

// WithDayHook registers fn to be called after every simulated day. Hooks
// run in registration order.
func WithDayHook(fn func(DayReport)) Option {
	return func(s *Scenario) {
		if fn != nil {
			s.dayHooks = append(s.dayHooks, fn)
		}
	}
}
