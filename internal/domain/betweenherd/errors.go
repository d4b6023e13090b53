package betweenherd

import "errors"

// Sentinel kinds for between-herd errors. Both are fatal to a run.
var (
	ErrTopology  = errors.New("between-herd topology corrupted")
	ErrInvariant = errors.New("between-herd invariant violated")
)
