package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a burn job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
)

var allStatuses = []Status{
	StatusQueued,
	StatusRunning,
	StatusSucceeded,
	StatusFailed,
	StatusTimedOut,
}

var terminalStatuses = map[Status]struct{}{
	StatusSucceeded: {},
	StatusFailed:    {},
	StatusTimedOut:  {},
}

// Job represents a burn job persisted in SQLite.
type Job struct {
	ID           string
	VideoPath    string
	SubtitlePath string
	ScriptTag    string
	OutputPath   string
	Status       Status
	ErrorKind    string
	ErrorMessage string
	StderrTail   string
	ExitCode     int
	RenderMillis int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// IsTerminal reports whether the job has reached a final state.
func (j Job) IsTerminal() bool {
	return IsTerminalStatus(j.Status)
}

// IsTerminalStatus reports whether a status is final.
func IsTerminalStatus(status Status) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// HealthSummary describes aggregated job counts per lifecycle state.
type HealthSummary struct {
	Total     int
	Queued    int
	Running   int
	Succeeded int
	Failed    int
	TimedOut  int
}
