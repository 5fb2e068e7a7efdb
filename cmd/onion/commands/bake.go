package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.keyframe.sh/onion/internal/adapters/telemetry"
	"go.keyframe.sh/onion/internal/app"
)

func (c *CLI) newBakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bake",
		Short: "Precompute ghosts for the configured frame range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := c.loadSettings(cmd)
			if err != nil {
				return err
			}
			frames, _ := cmd.Flags().GetIntSlice("frames")
			workers, _ := cmd.Flags().GetInt("workers")
			rebake, _ := cmd.Flags().GetBool("rebake")
			quiet, _ := cmd.Flags().GetBool("quiet")

			opts := app.BakeOptions{
				Frames:  frames,
				Workers: workers,
				Rebake:  rebake,
			}
			if !quiet {
				opts.Reporter = telemetry.NewPrinter(cmd.OutOrStdout())
			}

			report, err := c.app.Bake(cmd.Context(), set, opts)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"baked %d ghosts in %s (%d computed, %d cached)\n",
				report.Total, report.Elapsed.Round(time.Millisecond),
				report.Computed, report.Cached)
			return nil
		},
	}

	cmd.Flags().IntSlice("frames", nil, "Explicit frames to bake (default: the configured range)")
	cmd.Flags().IntP("workers", "w", 0, "Parallel evaluations (0 = one per CPU)")
	cmd.Flags().Bool("rebake", false, "Recompute ghosts that are already cached")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress per-ghost progress output")

	return cmd
}
