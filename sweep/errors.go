package sweep

import "github.com/pkg/errors"

var (
	ErrAlreadyStarted  = errors.New("sweep: driver already started")
	ErrNotStarted      = errors.New("sweep: driver not started")
	ErrFlushed         = errors.New("sweep: series already flushed")
	ErrUnknownSeries   = errors.New("sweep: unknown series")
	ErrDuplicateSeries = errors.New("sweep: duplicate series name")
)
