package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hardsub/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check required external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			statuses := deps.CheckBinaries(deps.Required(cfg))
			for _, status := range statuses {
				kind := statusOK
				msg := status.Command
				if !status.Available {
					kind = statusError
					msg = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, msg, colorize))
			}
			if missing := deps.FirstMissing(statuses); missing != nil {
				return fmt.Errorf("missing required dependency: %s", missing.Name)
			}
			return nil
		},
	}
	return cmd
}
