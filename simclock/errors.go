package simclock

import "github.com/pkg/errors"

var errRunning = errors.New("simclock: Run called while already running")
