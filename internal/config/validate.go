package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/okian/epiherd/internal/domain/scenariotime"
	"github.com/okian/epiherd/internal/domain/surveillance"
)

// Validate checks every field and joins all problems into one error
// wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"infection_rate", c.InfectionRate},
		{"recovery_rate", c.RecoveryRate},
		{"exogenous_infection_rate", c.ExogenousInfectionRate},
	}
	for _, r := range rates {
		if math.IsNaN(r.value) || r.value < 0 {
			bad("%s must be a non-negative rate, got %g", r.name, r.value)
		}
	}

	probabilities := []struct {
		name  string
		value float64
	}{
		{"contact_rate", c.ContactRate},
		{"detection_rate", c.DetectionRate},
		{"remaining_proportion", c.RemainingProportion},
	}
	for _, p := range probabilities {
		if math.IsNaN(p.value) || p.value < 0 || p.value > 1 {
			bad("%s must be within [0, 1], got %g", p.name, p.value)
		}
	}
	if c.DetectionRate == 1 {
		bad("detection_rate must be below 1")
	}

	if c.StartTime < 1 {
		bad("start_time must be at least 1")
	}
	if c.MaxTimesteps == 0 {
		bad("max_timesteps must be positive")
	}
	if c.MinTimesteps > c.MaxTimesteps {
		bad("min_timesteps (%d) exceeds max_timesteps (%d)", c.MinTimesteps, c.MaxTimesteps)
	}

	switch strings.ToLower(c.SeedMode) {
	case SeedRandom, SeedAll:
	default:
		bad("unknown seed_mode %q", c.SeedMode)
	}
	if _, err := surveillance.ParseCullingMode(c.CullingMode); err != nil {
		bad("culling_mode: %v", err)
	}

	schedules := map[string]string{
		"passive_schedule":      c.PassiveSchedule,
		"record_schedule":       c.RecordSchedule,
		"repopulation_schedule": c.RepopulationSchedule,
	}
	for _, name := range []string{"passive_schedule", "record_schedule", "repopulation_schedule"} {
		if _, err := scenariotime.ParseSchedule(schedules[name]); err != nil {
			bad("%s: %v", name, err)
		}
	}

	if c.ParallelWithinHerd && c.WorkerCount < 1 {
		bad("worker_count must be positive in parallel mode, got %d", c.WorkerCount)
	}

	if c.PopulationFile == "" {
		if c.RingFarms < 1 {
			bad("ring_farms must be positive without a population_file, got %d", c.RingFarms)
		}
		if c.RingHerdSize < 0 {
			bad("ring_herd_size must not be negative, got %d", c.RingHerdSize)
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		bad("unknown log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		bad("unknown log_format %q", c.LogFormat)
	}

	return errors.Join(errs...)
}
