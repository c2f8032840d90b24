package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hardsub/internal/api"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var statusFilter []string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List burn jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			jobs, err := client.Jobs(cmd.Context(), statusFilter...)
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderJobsTable(jobs))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func renderJobsTable(jobs []api.Job) string {
	headers := []string{"ID", "Status", "Video", "Error", "Render"}
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		errText := job.ErrorKind
		if errText == "" && job.ErrorMessage != "" {
			errText = job.ErrorMessage
		}
		rows = append(rows, []string{
			shortID(job.ID),
			job.Status,
			baseName(job.VideoPath),
			errText,
			renderDuration(job.RenderMillis),
		})
	}
	return renderTable(headers, rows, 4)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func renderDuration(millis int64) string {
	if millis <= 0 {
		return ""
	}
	return (time.Duration(millis) * time.Millisecond).Round(100 * time.Millisecond).String()
}
