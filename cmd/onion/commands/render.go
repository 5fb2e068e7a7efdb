package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.keyframe.sh/onion/internal/adapters/offscreen"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw one onion-skin overlay to a WebP image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := c.loadSettings(cmd)
			if err != nil {
				return err
			}
			frame, _ := cmd.Flags().GetInt("frame")
			out, _ := cmd.Flags().GetString("out")
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")

			target := offscreen.New(
				offscreen.WithOutput(out),
				offscreen.WithSize(width, height),
			)
			if err := c.app.Render(cmd.Context(), target, frame, set); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "overlay written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().IntP("frame", "f", 1, "Playhead frame to render around")
	cmd.Flags().StringP("out", "o", "overlay.webp", "Output image path")
	cmd.Flags().Int("width", 512, "Output width in pixels")
	cmd.Flags().Int("height", 512, "Output height in pixels")

	return cmd
}
