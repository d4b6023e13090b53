package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/epiherd/internal/adapters/populationfile"
	"github.com/okian/epiherd/internal/adapters/recorder"
	"github.com/okian/epiherd/internal/adapters/worker"
	"github.com/okian/epiherd/internal/config"
	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/scenariotime"
	"github.com/okian/epiherd/internal/domain/surveillance"
	"github.com/okian/epiherd/pkg/logger"
)

// FromConfig builds a scenario from a validated configuration. It picks the
// population source, converts rates, sets up the worker pool in parallel
// mode and opens the CSV recorder when an output directory is configured.
// extra options are applied after the configured ones.
func FromConfig(ctx context.Context, cfg *config.Config, extra ...Option) (*Scenario, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidScenario)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Get().Named("scenario")

	disease, err := parameters.NewDiseaseParameters(cfg.InfectionRate, cfg.RecoveryRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	contact, err := parameters.NewContactRate(cfg.ContactRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	exogenous, err := parameters.NewRate(cfg.ExogenousInfectionRate)
	if err != nil {
		return nil, fmt.Errorf("%w: exogenous infection rate: %w", ErrInvalidScenario, err)
	}
	detection, err := parameters.NewProbability(cfg.DetectionRate)
	if err != nil {
		return nil, fmt.Errorf("%w: detection rate: %w", ErrInvalidScenario, err)
	}
	remaining, err := parameters.NewProbability(cfg.RemainingProportion)
	if err != nil {
		return nil, fmt.Errorf("%w: remaining proportion: %w", ErrInvalidScenario, err)
	}
	culling, err := surveillance.ParseCullingMode(cfg.CullingMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	schedules := make([]scenariotime.Criterion, 3)
	for i, name := range []string{cfg.PassiveSchedule, cfg.RecordSchedule, cfg.RepopulationSchedule} {
		if schedules[i], err = scenariotime.ParseSchedule(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
	}

	seedMode := SeedOneRandomFarm
	if strings.EqualFold(cfg.SeedMode, config.SeedAll) {
		seedMode = SeedEveryFarm
	}

	opts := []Option{
		WithLogger(log),
		WithSeed(cfg.RandomSeed),
		WithDisease(disease),
		WithContactRate(contact),
		WithExogenousInfectionRate(exogenous),
		WithDetection(detection.Rate(), remaining),
		WithCullingMode(culling),
		WithSeedMode(seedMode),
		WithTimesteps(cfg.StartTime, cfg.MinTimesteps, cfg.MaxTimesteps),
		WithPassiveSchedule(schedules[0]),
		WithRecordSchedule(schedules[1]),
		WithRepopulationSchedule(schedules[2]),
	}

	if cfg.ParallelWithinHerd {
		pool := worker.NewPool(cfg.WorkerCount, worker.WithLogger(log.Named("workers")))
		opts = append(opts, WithRunner(pool))
	}

	var csv *recorder.CSV
	if cfg.OutputDir != "" {
		csv, err = recorder.NewCSV(cfg.OutputDir, recorder.WithCSVLogger(log.Named("csv")))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithRecorder(csv))
		log.Info(ctx, "writing csv output", logger.String("dir", cfg.OutputDir))
	}

	s, err := New(populationLoader(cfg), append(opts, extra...)...)
	if err != nil {
		if csv != nil {
			_ = csv.Close()
		}
		return nil, err
	}
	return s, nil
}

func populationLoader(cfg *config.Config) population.Loader {
	if cfg.PopulationFile != "" {
		return populationfile.NewFile(cfg.PopulationFile)
	}
	return populationfile.Ring{Farms: cfg.RingFarms, HerdSize: cfg.RingHerdSize}
}
