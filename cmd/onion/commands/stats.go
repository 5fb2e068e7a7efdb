package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run a scripted edit session and report cache effectiveness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := c.loadSettings(cmd)
			if err != nil {
				return err
			}

			stats, err := c.app.Stats(cmd.Context(), set)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "objects tracked: %d\n", stats.Objects)
			_, _ = fmt.Fprintf(out, "scene evaluations: %d\n", stats.Evals)
			_, _ = fmt.Fprintf(out, "cache: %d hits, %d misses (%.0f%% hit rate), %d entries\n",
				stats.Cache.Hits, stats.Cache.Misses, stats.Cache.HitRate()*100, stats.Cache.Len)
			return nil
		},
	}
}
