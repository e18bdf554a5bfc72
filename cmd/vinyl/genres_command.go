package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			for _, genre := range ctl.Genres() {
				fmt.Fprintln(cmd.OutOrStdout(), genre)
			}
			return nil
		},
	}
}
