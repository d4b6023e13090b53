package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownCullKind = errors.New("unknown cull kind")
)
