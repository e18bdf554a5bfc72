package main

import (
	"github.com/handiism/stylus-vinyl/internal/config"
	"github.com/handiism/stylus-vinyl/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			// The screen belongs to the UI, so the log always goes to a file.
			if settings.LogFile == "" {
				settings.LogFile = config.DefaultLogFile()
			}

			log, err := ctx.newLogger(settings, nil)
			if err != nil {
				return err
			}

			sources, err := ctx.sources(settings)
			if err != nil {
				return err
			}
			return tui.Run(tui.Options{
				Settings: settings,
				Sources:  sources,
				Logger:   log,
				Verbose:  ctx.flags.verbose,
			})
		},
	}
}
