package app

import "errors"

// Sentinel kinds for scenario errors.
var (
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrAlreadyRun      = errors.New("scenario already run")
)
