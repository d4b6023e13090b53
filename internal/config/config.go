// Package config defines the scenario configuration and how it is loaded.
//
// Conventions:
// - New(ctx) returns a Config holding every default.
// - Load(ctx) layers a YAML file and environment variables over the defaults.
// - Validate reports every problem wrapped in ErrInvalidConfig.
package config

import (
	"context"
	"runtime"
)

// Seed modes.
const (
	SeedRandom = "random"
	SeedAll    = "all"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// InfectionRate and RecoveryRate are the within-herd daily rates.
	InfectionRate float64 `koanf:"infection_rate"`
	RecoveryRate  float64 `koanf:"recovery_rate"`

	// ContactRate is the daily probability that an infected farm makes a contact.
	ContactRate float64 `koanf:"contact_rate"`

	// DetectionRate is the per-animal daily detection probability.
	DetectionRate float64 `koanf:"detection_rate"`

	// RemainingProportion is the share of infected animals left after a partial cull.
	RemainingProportion float64 `koanf:"remaining_proportion"`

	// ExogenousInfectionRate moves susceptibles to infected from outside the population.
	ExogenousInfectionRate float64 `koanf:"exogenous_infection_rate"`

	// RandomSeed seeds the scenario generator.
	RandomSeed uint64 `koanf:"random_seed"`

	// StartTime is the tick of the first simulated day.
	StartTime uint64 `koanf:"start_time"`

	// MinTimesteps and MaxTimesteps bound the number of simulated days.
	MinTimesteps uint64 `koanf:"min_timesteps"`
	MaxTimesteps uint64 `koanf:"max_timesteps"`

	// SeedMode is "random" (one farm) or "all" (every farm).
	SeedMode string `koanf:"seed_mode"`

	// CullingMode is "vanish" or "recovered".
	CullingMode string `koanf:"culling_mode"`

	// Schedules gate periodic stages: daily, weekly, monthly, yearly, never.
	PassiveSchedule      string `koanf:"passive_schedule"`
	RecordSchedule       string `koanf:"record_schedule"`
	RepopulationSchedule string `koanf:"repopulation_schedule"`

	// ParallelWithinHerd runs within-herd updates on per-farm streams.
	ParallelWithinHerd bool `koanf:"parallel_within_herd"`

	// WorkerCount sets the number of workers in parallel mode.
	WorkerCount int `koanf:"worker_count"`

	// PopulationFile is a YAML or JSON farm list. Empty means a generated ring.
	PopulationFile string `koanf:"population_file"`

	// RingFarms and RingHerdSize shape the generated ring population.
	RingFarms    int `koanf:"ring_farms"`
	RingHerdSize int `koanf:"ring_herd_size"`

	// OutputDir receives the CSV files. Empty disables CSV output.
	OutputDir string `koanf:"output_dir"`

	// MetricsAddr serves /healthz, /stats and /metrics when set, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		InfectionRate:          0.03,
		RecoveryRate:           0.01,
		ContactRate:            0.095,
		DetectionRate:          0.01,
		RemainingProportion:    0.1,
		ExogenousInfectionRate: 0,
		RandomSeed:             20210426,
		StartTime:              1,
		MinTimesteps:           0,
		MaxTimesteps:           364,
		SeedMode:               SeedRandom,
		CullingMode:            "vanish",
		PassiveSchedule:        "monthly",
		RecordSchedule:         "daily",
		RepopulationSchedule:   "never",
		ParallelWithinHerd:     false,
		WorkerCount:            runtime.NumCPU(),
		PopulationFile:         "",
		RingFarms:              2,
		RingHerdSize:           100,
		OutputDir:              "outputs",
		MetricsAddr:            "",
	}
}
