package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/okian/epiherd/internal/adapters/http/api"
	"github.com/okian/epiherd/internal/app"
	"github.com/okian/epiherd/internal/config"
	"github.com/okian/epiherd/pkg/logger"
	"github.com/okian/epiherd/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	progressThrottle  = 100 * time.Millisecond
)

type runFlags struct {
	configPath string
	seed       uint64
	days       uint64
	outputDir  string
	population string
	parallel   bool
	noProgress bool
}

func runCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scenario",
		Long: `Run one scenario using defaults, an optional YAML config file and
EPIHERD_* environment variables. Flags override all of them.

Examples:
  epiherd run
  epiherd run --config scenario.yaml --seed 42 --days 100
  EPIHERD_CONTACT_RATE=0.2 epiherd run --output out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.Get()

			cfg, err := loadRunConfig(ctx, cmd, &f)
			if err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
				_ = logger.SetLevelString("info")
			}

			var tracker *api.Tracker
			opts := []app.Option{app.WithDayHook(func(r app.DayReport) {
				if tracker != nil {
					tracker.Observe(r.Tick, r.Elapsed, r.InfectedFarms, r.InfectedAnimals, r.Transmissions, r.Detections)
				}
			})}
			var bar *progressbar.ProgressBar
			if !f.noProgress {
				bar = newProgressBar(cmd.ErrOrStderr(), int64(cfg.MaxTimesteps))
				opts = append(opts, app.WithDayHook(func(r app.DayReport) {
					_ = bar.Set64(int64(r.Elapsed))
				}))
			}

			scenario, err := app.FromConfig(ctx, cfg, opts...)
			if err != nil {
				log.Error(ctx, "failed to build scenario", logger.Error(err))
				return err
			}

			if cfg.MetricsAddr != "" {
				tracker = api.NewTracker(scenario.RunID(), cfg.MaxTimesteps)
				stop := serveStatus(ctx, log, cfg.MetricsAddr, tracker)
				defer stop()
			}

			summary, err := scenario.Run(ctx)
			if bar != nil {
				_ = bar.Finish()
			}
			if tracker != nil {
				tracker.Finish(summary.Reason)
			}
			printSummary(cmd.OutOrStdout(), summary, cfg.OutputDir, len(scenario.Outbreaks()))
			if err != nil {
				log.Error(ctx, "scenario failed", logger.String("run_id", summary.RunID), logger.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file (overrides "+config.EnvConfig+")")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed")
	cmd.Flags().Uint64Var(&f.days, "days", 0, "maximum number of simulated days")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "directory for CSV output")
	cmd.Flags().StringVarP(&f.population, "population", "p", "", "YAML or JSON population file")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "run within-herd updates on per-farm streams")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}

// loadRunConfig layers flags that were set explicitly on top of the loaded
// configuration and validates the result.
func loadRunConfig(ctx context.Context, cmd *cobra.Command, f *runFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(ctx, f.configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.RandomSeed = f.seed
	}
	if flags.Changed("days") {
		cfg.MaxTimesteps = f.days
	}
	if flags.Changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("population") {
		cfg.PopulationFile = f.population
	}
	if flags.Changed("parallel") {
		cfg.ParallelWithinHerd = f.parallel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newProgressBar(w io.Writer, total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("simulating days"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
		}),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionClearOnFinish(),
	)
}

// serveStatus exposes health, run progress and the metrics registry on addr
// until the returned stop function is called.
func serveStatus(ctx context.Context, log logger.Logger, addr string, tracker *api.Tracker) func() {
	mux := http.NewServeMux()
	api.NewServer(tracker, metrics.GetRegistry()).Register(mux)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving status", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "status server failed", logger.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "status server shutdown failed", logger.Error(err))
		}
	}
}

func printSummary(w io.Writer, s app.Summary, outputDir string, outbreakDays int) {
	bold := color.New(color.Bold)
	label := color.New(color.FgHiBlack)

	status := color.New(color.FgGreen).Sprint(s.Reason)
	switch s.Reason {
	case app.ReasonFailed:
		status = color.New(color.FgRed).Sprint(s.Reason)
	case app.ReasonCancelled:
		status = color.New(color.FgYellow).Sprint(s.Reason)
	}

	rows := [][2]string{
		{"run id", s.RunID},
		{"seed", fmt.Sprint(s.Seed)},
		{"stopped", status},
		{"days", fmt.Sprint(s.Days)},
		{"last tick", fmt.Sprint(s.LastTick)},
		{"batches", fmt.Sprint(s.Batches)},
		{"transmissions", fmt.Sprint(s.Transmissions)},
		{"detections", fmt.Sprint(s.Detections)},
		{"outbreak days", fmt.Sprint(outbreakDays)},
	}
	if outputDir != "" {
		rows = append(rows, [2]string{"output", outputDir})
	}

	_, _ = bold.Fprintln(w, "Scenario summary")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 32))
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s %s\n", label.Sprintf("%-14s", r[0]), r[1])
	}
}
