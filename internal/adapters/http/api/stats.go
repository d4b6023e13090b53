package api

import (
	"net/http"
	"sync"
	"time"
)

// Run states reported by /stats.
const (
	StateRunning  = "running"
	StateFinished = "finished"
)

// Progress is the latest known state of a scenario run.
type Progress struct {
	RunID           string    `json:"run_id"`
	State           string    `json:"state"`
	Reason          string    `json:"reason,omitempty"`
	Tick            uint64    `json:"scenario_tick"`
	Elapsed         uint64    `json:"elapsed_days"`
	MaxTimesteps    uint64    `json:"max_timesteps"`
	InfectedFarms   int       `json:"infected_farms"`
	InfectedAnimals int       `json:"infected_animals"`
	Transmissions   int       `json:"transmissions"`
	Detections      int       `json:"detections"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StatsProvider returns the latest progress of a run.
type StatsProvider interface {
	Snapshot() Progress
}

// Tracker accumulates day reports into a Progress snapshot. It is safe for
// concurrent use by the simulation loop and HTTP handlers.
type Tracker struct {
	mu       sync.RWMutex
	progress Progress
	now      func() time.Time
}

// NewTracker creates a tracker for the run with the given id.
func NewTracker(runID string, maxTimesteps uint64) *Tracker {
	t := &Tracker{now: time.Now}
	t.progress = Progress{
		RunID:        runID,
		State:        StateRunning,
		MaxTimesteps: maxTimesteps,
		UpdatedAt:    t.now(),
	}
	return t
}

// Observe records one simulated day. Transmissions and detections are
// per-day counts and accumulate.
func (t *Tracker) Observe(tick, elapsed uint64, infectedFarms, infectedAnimals, transmissions, detections int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress.Tick = tick
	t.progress.Elapsed = elapsed
	t.progress.InfectedFarms = infectedFarms
	t.progress.InfectedAnimals = infectedAnimals
	t.progress.Transmissions += transmissions
	t.progress.Detections += detections
	t.progress.UpdatedAt = t.now()
}

// Finish marks the run as finished for the given reason.
func (t *Tracker) Finish(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress.State = StateFinished
	t.progress.Reason = reason
	t.progress.UpdatedAt = t.now()
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.Snapshot())
}
