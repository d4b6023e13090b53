package withinherd

import "errors"

// Sentinel kinds for within-herd errors. Both are fatal to a run.
var (
	ErrInvariant     = errors.New("within-herd invariant violated")
	ErrNoSusceptible = errors.New("no susceptible animals to infect")
)
