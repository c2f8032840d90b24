// Package deps verifies the external binaries hardsub shells out to.
// Missing required binaries are a startup failure: the daemon never
// reaches a ready state without them, rather than failing per-job.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"hardsub/internal/config"
)

// Requirement defines an external dependency hardsub relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Required returns the binaries the burn pipeline needs.
func Required(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Render.FFmpegBinary,
			Description: "Renders the subtitle burn",
		},
		{
			Name:        "ffprobe",
			Command:     cfg.Render.FFprobeBinary,
			Description: "Probes input duration and streams",
		},
		{
			Name:        "fc-cache",
			Command:     cfg.Render.FcCacheBinary,
			Description: "Refreshes the fontconfig index before first use",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// FirstMissing returns the first required dependency that is unavailable,
// or nil when everything needed is present.
func FirstMissing(statuses []Status) *Status {
	for i := range statuses {
		if !statuses[i].Optional && !statuses[i].Available {
			return &statuses[i]
		}
	}
	return nil
}
