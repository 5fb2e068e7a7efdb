package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.keyframe.sh/onion/internal/app"
)

func (c *CLI) newScrubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrub",
		Short: "Sweep the playhead and keep the ghost cache warm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := c.loadSettings(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetInt("from")
			to, _ := cmd.Flags().GetInt("to")
			workers, _ := cmd.Flags().GetInt("workers")
			poseEvery, _ := cmd.Flags().GetInt("pose-every")

			stats, err := c.app.Scrub(cmd.Context(), set, app.ScrubOptions{
				From:      from,
				To:        to,
				Workers:   workers,
				PoseEvery: poseEvery,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"scrubbed %d..%d: %d hits, %d misses, %d evictions, %d ghosts cached (%.0f%% hit rate)\n",
				from, to, stats.Hits, stats.Misses, stats.Evictions, stats.Len, stats.HitRate()*100)
			return nil
		},
	}

	cmd.Flags().Int("from", 1, "First frame of the sweep")
	cmd.Flags().Int("to", 24, "Last frame of the sweep")
	cmd.Flags().IntP("workers", "w", 0, "Parallel evaluations while warming")
	cmd.Flags().Int("pose-every", 0, "Nudge an armature pose every n frames (0 = never)")

	return cmd
}
