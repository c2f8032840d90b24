package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show daemon health or a single job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				job, err := client.Job(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch job: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %s\n", job.ID)
				fmt.Fprintf(out, "Status:   %s\n", job.Status)
				fmt.Fprintf(out, "Video:    %s\n", job.VideoPath)
				fmt.Fprintf(out, "Subtitle: %s\n", job.SubtitlePath)
				if job.OutputPath != "" {
					fmt.Fprintf(out, "Output:   %s\n", job.OutputPath)
				}
				if job.ErrorKind != "" {
					fmt.Fprintf(out, "Error:    %s (%s)\n", job.ErrorMessage, job.ErrorKind)
				}
				if job.StderrTail != "" {
					fmt.Fprintf(out, "Stderr tail:\n%s\n", job.StderrTail)
				}
				if job.RenderMillis > 0 {
					fmt.Fprintf(out, "Render:   %s\n", renderDuration(job.RenderMillis))
				}
				return nil
			}

			health, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch daemon health: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			running := statusError
			if health.Running {
				running = statusOK
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", running, "", colorize))

			ready := statusWarn
			readyMsg := "font cache warming"
			if health.Ready {
				ready = statusOK
				readyMsg = ""
			}
			fmt.Fprintln(out, renderStatusLine("Ready", ready, readyMsg, colorize))
			fmt.Fprintln(out, renderStatusLine("Workers", statusInfo, fmt.Sprintf("%d", health.Workers), colorize))
			fmt.Fprintln(out, renderStatusLine("Scripts", statusInfo, strings.Join(health.ScriptTags, ", "), colorize))

			for _, dep := range health.Dependencies {
				kind := statusOK
				msg := dep.Command
				if !dep.Available {
					kind = statusError
					msg = dep.Detail
				}
				fmt.Fprintln(out, renderStatusLine(dep.Name, kind, msg, colorize))
			}

			if len(health.Counts) > 0 {
				keys := make([]string, 0, len(health.Counts))
				for key := range health.Counts {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				parts := make([]string, 0, len(keys))
				for _, key := range keys {
					parts = append(parts, fmt.Sprintf("%s=%d", key, health.Counts[key]))
				}
				fmt.Fprintln(out, renderStatusLine("Jobs", statusInfo, strings.Join(parts, " "), colorize))
			}
			return nil
		},
	}
	return cmd
}
