package scheduler

import "errors"

var (
	// ErrAlreadyRunning is returned by Start on a running Runner
	ErrAlreadyRunning = errors.New("scheduler is already running")

	// ErrNotRunning is returned by Stop on a stopped Runner
	ErrNotRunning = errors.New("scheduler is not running")

	// ErrJobNotFound is returned when a job name is unknown
	ErrJobNotFound = errors.New("job not found")

	// ErrJobBusy is returned when a job is triggered while it is still running
	ErrJobBusy = errors.New("job is already running")

	// ErrInvalidJob is returned for jobs without a name, interval or func
	ErrInvalidJob = errors.New("invalid job definition")
)
