// Package commands implements the CLI commands for the onion skinning tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.keyframe.sh/onion/internal/adapters/logger"
	"go.keyframe.sh/onion/internal/app"
	"go.keyframe.sh/onion/internal/build"
	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
)

// CLI represents the command line interface for onion.
type CLI struct {
	app     Application
	log     ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	LoadSettings(path string) (domain.Settings, error)
	Render(ctx context.Context, target ports.DrawTarget, frame int, set domain.Settings) error
	Bake(ctx context.Context, set domain.Settings, opts app.BakeOptions) (domain.BakeReport, error)
	Scrub(ctx context.Context, set domain.Settings, opts app.ScrubOptions) (domain.CacheStats, error)
	Stats(ctx context.Context, set domain.Settings) (app.SessionStats, error)
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "onion",
		Short:         "Ghost-frame overlays for animated scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the overlay config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: debug, info, warn, or error")

	c := &CLI{
		app:     a,
		log:     log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if lvl, err := cmd.Flags().GetString("log-level"); err == nil && lvl != "" {
			if setter, ok := c.log.(interface{ SetLevel(slog.Level) }); ok {
				setter.SetLevel(logger.ParseLevel(lvl))
			}
		}
	}

	rootCmd.AddCommand(c.newRenderCmd())
	rootCmd.AddCommand(c.newBakeCmd())
	rootCmd.AddCommand(c.newScrubCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// loadSettings reads the overlay config named by the persistent flag.
func (c *CLI) loadSettings(cmd *cobra.Command) (domain.Settings, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return domain.Settings{}, err
	}
	return c.app.LoadSettings(path)
}
