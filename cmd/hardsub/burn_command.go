package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hardsub/internal/deps"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/render"
	"hardsub/internal/subtitle"
)

// newBurnCommand renders one file synchronously without a running daemon.
func newBurnCommand(ctx *commandContext) *cobra.Command {
	var scriptTag string
	var outputPath string
	var fontSize int

	cmd := &cobra.Command{
		Use:   "burn <video> <subtitle.srt>",
		Short: "Burn subtitles into one video locally",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Required(cfg))
			if missing := deps.FirstMissing(statuses); missing != nil {
				return fmt.Errorf("required dependency %s unavailable: %s", missing.Name, missing.Detail)
			}

			logger, err := logging.New(logging.Options{Level: "warn", Format: "console"})
			if err != nil {
				return err
			}

			resolver, err := fonts.NewResolver(cfg, logger)
			if err != nil {
				return err
			}
			if err := resolver.WarmCache(cmd.Context()); err != nil {
				return fmt.Errorf("warm font cache: %w", err)
			}
			font, err := resolver.Resolve(scriptTag)
			if err != nil {
				return err
			}

			normalizer := subtitle.NewNormalizer(cfg.Paths.WorkDir, logger)
			normalizedPath, err := normalizer.Normalize(args[1])
			if err != nil {
				return err
			}
			defer os.Remove(normalizedPath)

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = filepath.Join(cfg.Paths.OutputDir, uuid.NewString()+".mp4")
			}

			invoker := render.NewInvoker(cfg, logger)
			spec := render.Spec{
				JobID:        uuid.NewString(),
				VideoPath:    args[0],
				SubtitlePath: normalizedPath,
				OutputPath:   target,
				Style:        render.StyleOptions{FontSize: fontSize},
			}
			result, err := invoker.Run(cmd.Context(), spec, font)
			if err != nil {
				if result.StderrTail != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), result.StderrTail)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptTag, "script", "he", "Script tag selecting the burn font")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().IntVar(&fontSize, "font-size", 0, "Override subtitle font size")
	return cmd
}
