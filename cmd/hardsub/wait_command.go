package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// terminalStatuses mirrors the job states that never change again.
var terminalStatuses = map[string]bool{
	"succeeded": true,
	"failed":    true,
	"timed_out": true,
}

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "wait <job-id>",
		Short: "Block until a job reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()

			for {
				job, err := client.Job(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch job: %w", err)
				}
				if terminalStatuses[job.Status] {
					fmt.Fprintln(cmd.OutOrStdout(), job.Status)
					if job.Status != "succeeded" {
						if job.ErrorKind != "" {
							return fmt.Errorf("job %s: %s: %s", job.ID, job.ErrorKind, job.ErrorMessage)
						}
						return fmt.Errorf("job %s ended %s", job.ID, job.Status)
					}
					return nil
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVar(&pollInterval, "interval", 2*time.Second, "Poll interval")
	return cmd
}
