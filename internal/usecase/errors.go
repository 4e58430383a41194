package usecase

import "errors"

var (
	// ErrPipeline wraps cache and orchestration failures surfaced to clients.
	ErrPipeline = errors.New("course pipeline failed")
	// ErrHistoryDisabled is returned by RecentRuns when no run history store is configured.
	ErrHistoryDisabled = errors.New("run history is disabled")
)
