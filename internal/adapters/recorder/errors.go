package recorder

import "errors"

// Sentinel errors for recorders.
var (
	ErrClosed    = errors.New("recorder closed")
	ErrOutputDir = errors.New("invalid output directory")
)
