package scenariotime

import "errors"

// Sentinel kinds for scenario clock errors.
var (
	ErrNoEndTime    = errors.New("there is no end time given")
	ErrTimeOverflow = errors.New("scenario time overflow")
	ErrInvalidRange = errors.New("end time precedes start time")
	ErrSchedule     = errors.New("unknown schedule")
)
