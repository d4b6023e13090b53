// Package recorder consumes the per-day payloads of a scenario run.
package recorder

import (
	"context"
	"errors"

	"github.com/okian/epiherd/internal/domain/model"
)

// Recorder receives farm states, infection batches and prevalence reports.
// Payloads are only valid for the duration of the call.
type Recorder interface {
	RecordFarmStates(ctx context.Context, states []model.FarmState) error
	RecordInfectionBatch(ctx context.Context, batch *model.InfectionBatch) error
	RecordPrevalence(ctx context.Context, report model.PrevalenceReport) error
	Close() error
}

// Multi fans every payload out to several recorders in order.
type Multi []Recorder

// RecordFarmStates implements Recorder.
func (m Multi) RecordFarmStates(ctx context.Context, states []model.FarmState) error {
	for _, r := range m {
		if err := r.RecordFarmStates(ctx, states); err != nil {
			return err
		}
	}
	return nil
}

// RecordInfectionBatch implements Recorder.
func (m Multi) RecordInfectionBatch(ctx context.Context, batch *model.InfectionBatch) error {
	for _, r := range m {
		if err := r.RecordInfectionBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrevalence implements Recorder.
func (m Multi) RecordPrevalence(ctx context.Context, report model.PrevalenceReport) error {
	for _, r := range m {
		if err := r.RecordPrevalence(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every recorder and joins their errors.
func (m Multi) Close() error {
	errs := make([]error, 0, len(m))
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
