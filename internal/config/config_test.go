package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/epiherd/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should carry the reference scenario defaults", func() {
			convey.So(cfg.InfectionRate, convey.ShouldEqual, 0.03)
			convey.So(cfg.RecoveryRate, convey.ShouldEqual, 0.01)
			convey.So(cfg.ContactRate, convey.ShouldEqual, 0.095)
			convey.So(cfg.DetectionRate, convey.ShouldEqual, 0.01)
			convey.So(cfg.RemainingProportion, convey.ShouldEqual, 0.1)
			convey.So(cfg.RandomSeed, convey.ShouldEqual, 20210426)
			convey.So(cfg.StartTime, convey.ShouldEqual, 1)
			convey.So(cfg.MaxTimesteps, convey.ShouldEqual, 364)
			convey.So(cfg.SeedMode, convey.ShouldEqual, config.SeedRandom)
			convey.So(cfg.CullingMode, convey.ShouldEqual, "vanish")
			convey.So(cfg.PassiveSchedule, convey.ShouldEqual, "monthly")
			convey.So(cfg.RecordSchedule, convey.ShouldEqual, "daily")
			convey.So(cfg.RepopulationSchedule, convey.ShouldEqual, "never")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.RingFarms, convey.ShouldEqual, 2)
			convey.So(cfg.RingHerdSize, convey.ShouldEqual, 100)
			convey.So(cfg.OutputDir, convey.ShouldEqual, "outputs")
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given configs with a single invalid field", t, func() {
		ctx := context.Background()
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"negative infection rate", func(c *config.Config) { c.InfectionRate = -0.1 }},
			{"negative recovery rate", func(c *config.Config) { c.RecoveryRate = -1 }},
			{"contact rate above one", func(c *config.Config) { c.ContactRate = 1.5 }},
			{"certain detection", func(c *config.Config) { c.DetectionRate = 1 }},
			{"negative remaining share", func(c *config.Config) { c.RemainingProportion = -0.1 }},
			{"zero max timesteps", func(c *config.Config) { c.MaxTimesteps = 0 }},
			{"zero start time", func(c *config.Config) { c.StartTime = 0 }},
			{"min above max timesteps", func(c *config.Config) { c.MinTimesteps = 400 }},
			{"unknown seed mode", func(c *config.Config) { c.SeedMode = "some" }},
			{"unknown culling mode", func(c *config.Config) { c.CullingMode = "burn" }},
			{"unknown passive schedule", func(c *config.Config) { c.PassiveSchedule = "hourly" }},
			{"unknown record schedule", func(c *config.Config) { c.RecordSchedule = "fortnightly" }},
			{"unknown repopulation", func(c *config.Config) { c.RepopulationSchedule = "sometimes" }},
			{"no workers in parallel", func(c *config.Config) { c.ParallelWithinHerd = true; c.WorkerCount = 0 }},
			{"no population", func(c *config.Config) { c.RingFarms = 0 }},
			{"negative ring herd size", func(c *config.Config) { c.RingHerdSize = -1 }},
			{"unknown log level", func(c *config.Config) { c.LogLevel = "loud" }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
		}

		for _, tc := range cases {
			convey.Convey("When the config has a "+tc.name, func() {
				cfg := config.New(ctx)
				tc.mutate(cfg)

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					err := cfg.Validate()
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When a population file replaces the ring", func() {
			cfg := config.New(ctx)
			cfg.RingFarms = 0
			cfg.PopulationFile = "farms.yaml"

			convey.Convey("Then the ring size should not matter", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When several fields are invalid", func() {
			cfg := config.New(ctx)
			cfg.InfectionRate = -1
			cfg.CullingMode = "burn"
			err := cfg.Validate()

			convey.Convey("Then every problem should be reported", func() {
				convey.So(err.Error(), convey.ShouldContainSubstring, "infection_rate")
				convey.So(err.Error(), convey.ShouldContainSubstring, "culling_mode")
			})
		})
	})
}
