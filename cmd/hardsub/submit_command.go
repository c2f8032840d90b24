package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hardsub/internal/api"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var scriptTag string
	var fontSize int
	var alignment int
	var marginV int

	cmd := &cobra.Command{
		Use:   "submit <video> <subtitle.srt>",
		Short: "Submit a burn job to the daemon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}
			subtitlePath, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("resolve subtitle path: %w", err)
			}

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Submit(cmd.Context(), api.SubmitRequest{
				VideoPath:    videoPath,
				SubtitlePath: subtitlePath,
				ScriptTag:    scriptTag,
				FontSize:     fontSize,
				Alignment:    alignment,
				MarginV:      marginV,
			})
			if err != nil {
				return fmt.Errorf("submit job: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptTag, "script", "he", "Script tag selecting the burn font")
	cmd.Flags().IntVar(&fontSize, "font-size", 0, "Override subtitle font size")
	cmd.Flags().IntVar(&alignment, "alignment", 0, "Override subtitle alignment")
	cmd.Flags().IntVar(&marginV, "margin-v", 0, "Override vertical margin")
	return cmd
}
