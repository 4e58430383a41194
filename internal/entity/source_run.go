package entity

import "time"

// SourceRun statuses.
const (
	RunStatusOK    = "ok"
	RunStatusEmpty = "empty"
	RunStatusPanic = "panic"
)

// Aggregation triggers.
const (
	TriggerRequest   = "request"
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerCLI       = "cli"
)

// SourceRun records the outcome of one source within one aggregation run.
type SourceRun struct {
	RunID       string        `json:"run_id"`
	Source      string        `json:"source"`
	Trigger     string        `json:"trigger"`
	CourseCount int           `json:"course_count"`
	Status      string        `json:"status"`
	Duration    time.Duration `json:"duration_ns"`
	StartedAt   time.Time     `json:"started_at"`
}
