package population

import "errors"

// Sentinel kinds for population errors.
var (
	ErrEmptyPopulation = errors.New("population has no farms")
	ErrDuplicateFarm   = errors.New("duplicate farm id")
	ErrUnknownFarm     = errors.New("unknown farm id")
	ErrInvalidFarm     = errors.New("invalid farm record")
)
