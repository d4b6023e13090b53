package recorder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/okian/epiherd/internal/domain/model"
	"github.com/okian/epiherd/pkg/logger"
)

// File names written by the CSV recorder.
const (
	FarmStatesFile      = "farm_states.csv"
	InfectionEventsFile = "infection_events.csv"
	PrevalenceFile      = "prevalence.csv"
)

var (
	farmStatesHeader      = []string{"scenario_tick", "farm_id", "susceptible", "infected", "recovered"}
	infectionEventsHeader = []string{"scenario_tick", "batch_id", "origin_farm_id", "target_farm_id", "new_infections"}
	prevalenceHeader      = []string{"scenario_tick", "infected_farms", "observed_farms", "total_farms", "true_prevalence", "observed_prevalence"}
)

// CSVOption applies a configuration option to the CSV recorder.
type CSVOption func(*CSV)

// WithCSVLogger sets a custom logger for the CSV recorder.
func WithCSVLogger(l logger.Logger) CSVOption {
	return func(c *CSV) {
		if l != nil {
			c.logger = l
		}
	}
}

type sink struct {
	file *os.File
	w    *csv.Writer
}

func openSink(path string, header []string) (*sink, error) {
	f, err := os.Create(path) //nolint:gosec // path is built from the configured output directory
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	s := &sink{file: f, w: csv.NewWriter(f)}
	if err := s.w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header %s: %w", path, err)
	}
	return s, nil
}

func (s *sink) close() error {
	s.w.Flush()
	return errors.Join(s.w.Error(), s.file.Close())
}

// CSV writes farm states, infection events and prevalence reports to three
// files in one directory, each with a fixed column order.
type CSV struct {
	mu         sync.Mutex
	dir        string
	states     *sink
	events     *sink
	prevalence *sink
	closed     bool
	row        []string
	logger     logger.Logger
}

// NewCSV creates dir if needed and truncates the three output files.
func NewCSV(dir string, opts ...CSVOption) (*CSV, error) {
	if dir == "" {
		return nil, ErrOutputDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	c := &CSV{dir: dir, row: make([]string, 0, len(prevalenceHeader))}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("csv-recorder")
	}

	var err error
	if c.states, err = openSink(filepath.Join(dir, FarmStatesFile), farmStatesHeader); err != nil {
		return nil, err
	}
	if c.events, err = openSink(filepath.Join(dir, InfectionEventsFile), infectionEventsHeader); err != nil {
		_ = c.states.close()
		return nil, err
	}
	if c.prevalence, err = openSink(filepath.Join(dir, PrevalenceFile), prevalenceHeader); err != nil {
		_ = c.states.close()
		_ = c.events.close()
		return nil, err
	}
	return c, nil
}

// Dir returns the output directory.
func (c *CSV) Dir() string { return c.dir }

// RecordFarmStates implements Recorder.
func (c *CSV) RecordFarmStates(_ context.Context, states []model.FarmState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	for i := range states {
		c.row = append(c.row[:0],
			strconv.FormatUint(states[i].Tick, 10),
			strconv.FormatUint(uint64(states[i].FarmID), 10),
			strconv.Itoa(states[i].Susceptible),
			strconv.Itoa(states[i].Infected),
			strconv.Itoa(states[i].Recovered),
		)
		if err := c.states.w.Write(c.row); err != nil {
			return fmt.Errorf("write farm state: %w", err)
		}
	}
	c.states.w.Flush()
	return c.states.w.Error()
}

// RecordInfectionBatch implements Recorder. Nil or empty batches are ignored.
func (c *CSV) RecordInfectionBatch(_ context.Context, batch *model.InfectionBatch) error {
	if batch == nil || len(batch.Events) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	for _, e := range batch.Events {
		c.row = append(c.row[:0],
			strconv.FormatUint(batch.Tick, 10),
			strconv.FormatUint(batch.BatchID, 10),
			strconv.FormatUint(uint64(e.Origin), 10),
			strconv.FormatUint(uint64(e.Target), 10),
			strconv.Itoa(e.NewInfections),
		)
		if err := c.events.w.Write(c.row); err != nil {
			return fmt.Errorf("write infection event: %w", err)
		}
	}
	c.events.w.Flush()
	return c.events.w.Error()
}

// RecordPrevalence implements Recorder.
func (c *CSV) RecordPrevalence(_ context.Context, r model.PrevalenceReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.row = append(c.row[:0],
		strconv.FormatUint(r.Tick, 10),
		strconv.Itoa(r.InfectedFarms),
		strconv.Itoa(r.ObservedFarms),
		strconv.Itoa(r.TotalFarms),
		strconv.FormatFloat(r.TruePrevalence, 'g', -1, 64),
		strconv.FormatFloat(r.ObservedPrevalence, 'g', -1, 64),
	)
	if err := c.prevalence.w.Write(c.row); err != nil {
		return fmt.Errorf("write prevalence: %w", err)
	}
	c.prevalence.w.Flush()
	return c.prevalence.w.Error()
}

// Close flushes and closes all files. Closing twice is a no-op.
func (c *CSV) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	err := errors.Join(c.states.close(), c.events.close(), c.prevalence.close())
	if err != nil {
		c.logger.Error(context.Background(), "closing csv output", logger.String("dir", c.dir), logger.Error(err))
		return err
	}
	c.logger.Debug(context.Background(), "csv output closed", logger.String("dir", c.dir))
	return nil
}
