package worker

import "errors"

// ErrNilFunc is returned when Run is called without work.
var ErrNilFunc = errors.New("worker: nil work function")
