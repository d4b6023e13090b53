package surveillance

import (
	"math/rand/v2"

	"github.com/okian/epiherd/internal/domain/model"
	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/scenariotime"
)

// Passive estimates prevalence without acting on it.
type Passive struct {
	detectionRate parameters.Rate
	totalFarms    int
}

// NewPassive creates the regulator with a per-animal detection rate.
func NewPassive(detectionRate parameters.Rate) *Passive {
	return &Passive{detectionRate: detectionRate}
}

// Update reports true and observed prevalence. A farm is observed only if
// it is infected and a Bernoulli draw with probability derived from
// infected * detection rate succeeds; uninfected farms draw nothing. The
// farm count is taken on first use and cached, as farms are never added or
// removed during a run.
func (p *Passive) Update(store *population.Store, rng *rand.Rand, tick scenariotime.Time) model.PrevalenceReport {
	if p.totalFarms == 0 {
		p.totalFarms = store.Len()
	}

	report := model.PrevalenceReport{Tick: tick, TotalFarms: p.totalFarms}
	farms := store.Farms()
	for i := range farms {
		if farms[i].Infected <= 0 {
			continue
		}
		report.InfectedFarms++
		detection := p.detectionRate.Scale(float64(farms[i].Infected)).Probability()
		if parameters.Bernoulli(rng, detection) {
			report.ObservedFarms++
		}
	}

	if p.totalFarms > 0 {
		report.TruePrevalence = float64(report.InfectedFarms) / float64(p.totalFarms)
		report.ObservedPrevalence = float64(report.ObservedFarms) / float64(p.totalFarms)
	}
	return report
}

// TotalFarms returns the cached farm count, 0 before the first update.
func (p *Passive) TotalFarms() int { return p.totalFarms }
