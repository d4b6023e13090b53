package parameters

import "errors"

// Sentinel kinds for parameter validation errors.
var (
	ErrNegativeRate    = errors.New("negative float is not a valid rate")
	ErrNotAProbability = errors.New("float is not between 0 and 1, thus not a valid probability")
)
