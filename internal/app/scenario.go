// Package app assembles a scenario from its domain engines and runs it day
// by day.
//
// Every day runs the same fixed sequence: advance the clock, within-herd
// update, exogenous infection, between-herd spread, active surveillance,
// passive surveillance, repopulation, recording and finally the
// termination check. Random numbers are drawn from one generator in
// exactly that order, so a seed reproduces a run.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/epiherd/internal/adapters/recorder"
	"github.com/okian/epiherd/internal/domain/betweenherd"
	"github.com/okian/epiherd/internal/domain/model"
	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/repopulation"
	"github.com/okian/epiherd/internal/domain/scenariotime"
	"github.com/okian/epiherd/internal/domain/surveillance"
	"github.com/okian/epiherd/internal/domain/withinherd"
	"github.com/okian/epiherd/pkg/logger"
	"github.com/okian/epiherd/pkg/metrics"
)

// Termination reasons reported in Summary.
const (
	ReasonMaxTimesteps = "max_timesteps"
	ReasonNoInfection  = "no_infection"
	ReasonCancelled    = "cancelled"
	ReasonFailed       = "failed"
)

// Summary describes a finished run.
type Summary struct {
	RunID         string
	Seed          uint64
	Days          scenariotime.Time
	LastTick      scenariotime.Time
	Batches       uint64
	Transmissions int
	Detections    int
	Reason        string
}

// Scenario is one stochastic simulation run over a farm population.
type Scenario struct {
	runID  string
	seed   uint64
	logger logger.Logger

	// Parameters
	defaults             population.Defaults
	detectionRate        parameters.Rate
	remainingProportion  parameters.Probability
	cullingMode          surveillance.CullingMode
	seedMode             SeedMode
	startTime            scenariotime.Time
	minTimesteps         scenariotime.Time
	maxTimesteps         scenariotime.Time
	passiveSchedule      scenariotime.Criterion
	recordSchedule       scenariotime.Criterion
	repopulationSchedule scenariotime.Criterion
	runner               withinherd.Runner
	dayHooks             []func(DayReport)

	// State
	store     *population.Store
	clock     *scenariotime.ScenarioTime
	rng       *rand.Rand
	within    *withinherd.Model
	between   *betweenherd.Model
	active    *surveillance.Active
	passive   *surveillance.Passive
	recorders recorder.Multi
	outbreaks *recorder.OutbreakTracker
	ran       bool
}

// New loads the population and validates all parameters. Nothing is drawn
// from the generator until Run.
func New(loader population.Loader, opts ...Option) (*Scenario, error) {
	s := &Scenario{
		runID:                uuid.NewString(),
		seed:                 20210426,
		startTime:            1,
		maxTimesteps:         scenariotime.DaysInYear,
		remainingProportion:  1,
		passiveSchedule:      scenariotime.Monthly,
		recordSchedule:       scenariotime.Daily,
		repopulationSchedule: scenariotime.Never,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scenario")
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		return nil, fmt.Errorf("%w: no population loader", ErrInvalidScenario)
	}

	records, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: load population: %w", ErrInvalidScenario, err)
	}
	s.store, err = population.NewStore(records, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	// Day 1 of the run is startTime, so the clock origin sits one day before.
	origin := s.startTime - 1
	end := origin + s.maxTimesteps
	if s.clock, err = scenariotime.New(origin, &end); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	s.rng = parameters.NewSource(s.seed)
	var withinOpts []withinherd.Option
	if s.runner != nil {
		withinOpts = append(withinOpts, withinherd.WithParallel(s.runner, s.seed))
	}
	s.within = withinherd.New(withinOpts...)
	s.between = betweenherd.New()
	s.active = surveillance.NewActive(s.detectionRate, s.remainingProportion, surveillance.WithCullingMode(s.cullingMode))
	s.passive = surveillance.NewPassive(s.detectionRate)
	s.outbreaks = recorder.NewOutbreakTracker(s.logger.Named("outbreaks"))
	s.recorders = append(s.recorders, s.outbreaks)

	return s, nil
}

func (s *Scenario) validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidScenario}, args...)...))
	}
	rate := func(name string, r parameters.Rate) {
		if math.IsNaN(float64(r)) || math.IsInf(float64(r), 0) || r < 0 {
			bad("%s must be a finite non-negative rate, got %v", name, r)
		}
	}
	probability := func(name string, p parameters.Probability) {
		if math.IsNaN(float64(p)) || p < 0 || p > 1 {
			bad("%s must be within [0, 1], got %v", name, p)
		}
	}

	rate("infection rate", s.defaults.Disease.InfectionRate)
	rate("recovery rate", s.defaults.Disease.RecoveryRate)
	rate("exogenous infection rate", s.defaults.ExogenousInfectionRate)
	rate("detection rate", s.detectionRate)
	probability("contact rate", parameters.Probability(s.defaults.ContactRate))
	probability("remaining proportion", s.remainingProportion)

	if s.startTime < 1 {
		bad("start time must be at least 1")
	}
	if s.maxTimesteps == 0 {
		bad("max timesteps must be positive")
	}
	if s.minTimesteps > s.maxTimesteps {
		bad("min timesteps %d exceed max timesteps %d", s.minTimesteps, s.maxTimesteps)
	}
	if s.startTime > math.MaxUint64-s.maxTimesteps {
		bad("start time %d overflows with %d timesteps", s.startTime, s.maxTimesteps)
	}
	if s.seedMode != SeedOneRandomFarm && s.seedMode != SeedEveryFarm {
		bad("unknown seed mode %d", s.seedMode)
	}
	return errors.Join(errs...)
}

// RunID returns the identifier assigned to this run.
func (s *Scenario) RunID() string { return s.runID }

// Farms returns the farm arena. Callers must not modify it while Run is active.
func (s *Scenario) Farms() []population.Farm { return s.store.Farms() }

// Outbreaks returns the days on which new farms became infected.
func (s *Scenario) Outbreaks() []recorder.OutbreakPoint { return s.outbreaks.History() }

// Run seeds the initial infection and simulates days until a stopping
// condition holds, a fatal error occurs or ctx is cancelled. Recorders are
// closed before it returns; output already recorded is kept on failure.
func (s *Scenario) Run(ctx context.Context) (summary Summary, err error) {
	if s.ran {
		return Summary{}, ErrAlreadyRun
	}
	s.ran = true

	summary = Summary{RunID: s.runID, Seed: s.seed}
	defer func() {
		if cerr := s.recorders.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close recorders: %w", cerr))
		}
		if err != nil && summary.Reason == "" {
			summary.Reason = ReasonFailed
		}
	}()

	s.logger.Info(ctx, "scenario starting",
		logger.String("run_id", s.runID),
		logger.Uint64("seed", s.seed),
		logger.Int("farms", s.store.Len()),
		logger.Uint64("max_timesteps", s.maxTimesteps),
		logger.Bool("parallel", s.within.Parallel()),
	)

	if err := s.seedInfection(ctx); err != nil {
		s.logger.Error(ctx, "seeding failed", logger.Error(err))
		return summary, err
	}

	for {
		if err := ctx.Err(); err != nil {
			summary.Reason = ReasonCancelled
			s.logger.Warn(ctx, "scenario cancelled", logger.Uint64("days", summary.Days))
			return summary, err
		}

		started := time.Now()
		report, err := s.step(ctx)
		if err != nil {
			s.logger.Error(ctx, "scenario failed",
				logger.Uint64("tick", s.clock.CurrentTime()),
				logger.Error(err),
			)
			return summary, err
		}
		metrics.RecordDay(report.Tick, float64(time.Since(started).Microseconds())/1000)

		summary.Days = report.Elapsed
		summary.LastTick = report.Tick
		summary.Batches = s.between.BatchID()
		summary.Transmissions += report.Transmissions
		summary.Detections += report.Detections
		for _, hook := range s.dayHooks {
			hook(report)
		}

		if reason, done := s.finished(report); done {
			summary.Reason = reason
			s.logger.Info(ctx, "scenario finished",
				logger.String("run_id", s.runID),
				logger.String("reason", reason),
				logger.Uint64("days", summary.Days),
				logger.Uint64("batches", summary.Batches),
				logger.Int("transmissions", summary.Transmissions),
				logger.Int("detections", summary.Detections),
			)
			return summary, nil
		}
	}
}

func (s *Scenario) seedInfection(ctx context.Context) error {
	if s.seedMode == SeedEveryFarm {
		if err := withinherd.SeedEverywhere(s.store); err != nil {
			return err
		}
		s.logger.Info(ctx, "seeded every farm", logger.Int("farms", s.store.Len()))
		return nil
	}
	id, err := withinherd.SeedRandom(s.store, s.rng)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "seeded farm", logger.Int("farm_id", int(id)))
	return nil
}

// step simulates a single day.
func (s *Scenario) step(ctx context.Context) (DayReport, error) {
	if err := s.clock.Advance(1); err != nil {
		return DayReport{}, err
	}
	tick := s.clock.CurrentTime()
	report := DayReport{Tick: tick, Elapsed: s.clock.ElapsedDuration(), MaxTimesteps: s.maxTimesteps}

	if err := s.within.Update(ctx, s.store, s.rng, tick); err != nil {
		return report, fmt.Errorf("within-herd update on day %d: %w", tick, err)
	}
	withinherd.ApplyExogenous(s.store)

	batch, err := s.between.Update(s.store, s.rng, tick)
	if err != nil {
		return report, fmt.Errorf("between-herd update on day %d: %w", tick, err)
	}

	culled := s.active.Update(s.store, s.rng)
	report.Detections = culled.Detections
	if culled.Detections > 0 {
		metrics.RecordDetections(culled.Detections)
		s.recordCulls(ctx, metrics.CullFull, culled.FullCulls)
		s.recordCulls(ctx, metrics.CullPartial, culled.PartialCulls)
	}

	if s.passiveSchedule(s.clock) {
		prevalence := s.passive.Update(s.store, s.rng, tick)
		metrics.UpdatePrevalence(prevalence.TruePrevalence, prevalence.ObservedPrevalence)
		s.logger.Info(ctx, "passive surveillance",
			logger.Uint64("tick", tick),
			logger.Float64("true_prevalence", prevalence.TruePrevalence),
			logger.Float64("observed_prevalence", prevalence.ObservedPrevalence),
		)
		if err := s.recorders.RecordPrevalence(ctx, prevalence); err != nil {
			return report, fmt.Errorf("record prevalence: %w", err)
		}
	}

	if s.repopulationSchedule(s.clock) {
		repopulation.Rescale(s.store)
	}

	if s.recordSchedule(s.clock) {
		if err := s.recorders.RecordFarmStates(ctx, model.Snapshot(tick, s.store.Farms())); err != nil {
			return report, fmt.Errorf("record farm states: %w", err)
		}
	}
	if batch != nil {
		report.Transmissions = len(batch.Events)
		metrics.RecordInfectionBatch(len(batch.Events))
		s.logger.Debug(ctx, "infection batch",
			logger.Uint64("tick", tick),
			logger.Uint64("batch_id", batch.BatchID),
			logger.Int("events", len(batch.Events)),
		)
		if err := s.recorders.RecordInfectionBatch(ctx, batch); err != nil {
			return report, fmt.Errorf("record infection batch: %w", err)
		}
	}

	totals := s.store.Totals()
	report.InfectedFarms = s.store.InfectedFarms()
	report.InfectedAnimals = totals.Infected
	metrics.UpdateInfection(report.InfectedFarms, report.InfectedAnimals)

	return report, nil
}

func (s *Scenario) recordCulls(ctx context.Context, kind string, count int) {
	if err := metrics.RecordCulls(kind, count); err != nil {
		s.logger.Warn(ctx, "failed to record culls", logger.String("kind", kind), logger.Error(err))
	}
}

// finished applies the stopping rule once the day's mutations are committed.
func (s *Scenario) finished(report DayReport) (string, bool) {
	if ended, err := s.clock.Ended(); err == nil && ended {
		return ReasonMaxTimesteps, true
	}
	if report.InfectedFarms == 0 && report.Elapsed >= s.minTimesteps {
		return ReasonNoInfection, true
	}
	return "", false
}
