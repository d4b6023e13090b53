package populationfile

import "errors"

// Sentinel kinds for population file errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported population file format")
	ErrDecode            = errors.New("decode population file")
	ErrRingSize          = errors.New("ring needs at least one farm")
)
