// Package parameters defines the numeric parameter types used by the disease
// models and the conversions between them.
//
// A Rate is the hazard of an exponential process and a Probability is the
// chance of at least one event within a single day. Conversions follow
// p = 1 - exp(-rate) and rate = -ln(1 - p).
package parameters

import (
	"fmt"
	"math"
)

// Rate is a non-negative instantaneous hazard, e.g. infections per
// susceptible-infected pair per day.
type Rate float64

// Probability is a real number in [0, 1].
type Probability float64

// NewRate validates value as a Rate.
func NewRate(value float64) (Rate, error) {
	if math.IsNaN(value) || value < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeRate, value)
	}
	return Rate(value), nil
}

// NewProbability validates value as a Probability.
func NewProbability(value float64) (Probability, error) {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return 0, fmt.Errorf("%w: %v", ErrNotAProbability, value)
	}
	return Probability(value), nil
}

// MustRate is like NewRate but panics on invalid input. Intended for
// constants and tests.
func MustRate(value float64) Rate {
	r, err := NewRate(value)
	if err != nil {
		panic(err)
	}
	return r
}

// MustProbability is like NewProbability but panics on invalid input.
func MustProbability(value float64) Probability {
	p, err := NewProbability(value)
	if err != nil {
		panic(err)
	}
	return p
}

// Probability converts the rate to the probability of at least one event:
// p = 1 - exp(-rate).
func (r Rate) Probability() Probability {
	return Probability(-math.Expm1(-float64(r)))
}

// Rate converts the probability to the equivalent hazard: rate = -ln(1 - p).
// A probability of 1 yields +Inf.
func (p Probability) Rate() Rate {
	return Rate(-math.Log1p(-float64(p)))
}

// Float64 returns the underlying value.
func (r Rate) Float64() float64 { return float64(r) }

// Float64 returns the underlying value.
func (p Probability) Float64() float64 { return float64(p) }

// Scale multiplies the rate by a non-negative factor such as a head count.
func (r Rate) Scale(factor float64) Rate {
	return Rate(float64(r) * factor)
}

func (r Rate) String() string        { return fmt.Sprintf("%g", float64(r)) }
func (p Probability) String() string { return fmt.Sprintf("%g", float64(p)) }

// CompoundProbabilities returns the probability that at least one of the
// independent events occurs: 1 - prod(1 - p_i).
func CompoundProbabilities(ps ...Probability) Probability {
	complement := 1.0
	for _, p := range ps {
		complement *= 1 - float64(p)
	}
	return Probability(1 - complement)
}

// CompoundRates sums the hazards and converts the total to a probability.
// Numerically preferred over CompoundProbabilities when rates are at hand.
func CompoundRates(rs ...Rate) Probability {
	var total Rate
	for _, r := range rs {
		total += r
	}
	return total.Probability()
}

// DiseaseParameters holds the within-herd transmission parameters.
type DiseaseParameters struct {
	InfectionRate Rate
	RecoveryRate  Rate
}

// NewDiseaseParameters validates both rates.
func NewDiseaseParameters(infectionRate, recoveryRate float64) (DiseaseParameters, error) {
	inf, err := NewRate(infectionRate)
	if err != nil {
		return DiseaseParameters{}, fmt.Errorf("infection rate: %w", err)
	}
	rec, err := NewRate(recoveryRate)
	if err != nil {
		return DiseaseParameters{}, fmt.Errorf("recovery rate: %w", err)
	}
	return DiseaseParameters{InfectionRate: inf, RecoveryRate: rec}, nil
}

// ContactRate is the daily probability that a farm sends out a batch of
// animals to one of its neighbours.
type ContactRate Probability

// NewContactRate validates value as a ContactRate.
func NewContactRate(value float64) (ContactRate, error) {
	p, err := NewProbability(value)
	if err != nil {
		return 0, fmt.Errorf("contact rate: %w", err)
	}
	return ContactRate(p), nil
}
