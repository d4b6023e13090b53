package recorder

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/epiherd/internal/domain/model"
)

// Memory keeps copies of every payload it receives.
type Memory struct {
	mu         sync.RWMutex
	states     []model.FarmState
	batches    []model.InfectionBatch
	prevalence []model.PrevalenceReport
	closed     bool
}

// NewMemory creates an empty in-memory recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// RecordFarmStates implements Recorder.
func (m *Memory) RecordFarmStates(_ context.Context, states []model.FarmState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.states = append(m.states, states...)
	return nil
}

// RecordInfectionBatch implements Recorder. Nil or empty batches are ignored.
func (m *Memory) RecordInfectionBatch(_ context.Context, batch *model.InfectionBatch) error {
	if batch == nil || len(batch.Events) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	b := *batch
	b.Events = slices.Clone(batch.Events)
	m.batches = append(m.batches, b)
	return nil
}

// RecordPrevalence implements Recorder.
func (m *Memory) RecordPrevalence(_ context.Context, report model.PrevalenceReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.prevalence = append(m.prevalence, report)
	return nil
}

// Close implements Recorder.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// FarmStates returns a copy of all recorded farm states.
func (m *Memory) FarmStates() []model.FarmState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.states)
}

// Batches returns a copy of all recorded infection batches.
func (m *Memory) Batches() []model.InfectionBatch {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.batches)
}

// Prevalence returns a copy of all recorded prevalence reports.
func (m *Memory) Prevalence() []model.PrevalenceReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.prevalence)
}
