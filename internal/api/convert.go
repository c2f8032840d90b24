package api

import (
	"time"

	"hardsub/internal/queue"
)

// FromJob converts a stored job into its transport representation.
func FromJob(job *queue.Job) Job {
	if job == nil {
		return Job{}
	}
	return Job{
		ID:           job.ID,
		VideoPath:    job.VideoPath,
		SubtitlePath: job.SubtitlePath,
		ScriptTag:    job.ScriptTag,
		OutputPath:   job.OutputPath,
		Status:       string(job.Status),
		ErrorKind:    job.ErrorKind,
		ErrorMessage: job.ErrorMessage,
		StderrTail:   job.StderrTail,
		ExitCode:     job.ExitCode,
		RenderMillis: job.RenderMillis,
		CreatedAt:    formatTime(job.CreatedAt),
		StartedAt:    formatTimePtr(job.StartedAt),
		FinishedAt:   formatTimePtr(job.FinishedAt),
	}
}

// FromJobs converts a slice of stored jobs.
func FromJobs(jobs []*queue.Job) []Job {
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, FromJob(job))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
