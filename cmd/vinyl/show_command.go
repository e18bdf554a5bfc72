package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/controller"
	"github.com/handiism/stylus-vinyl/internal/detail"
	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <query>",
		Short: "Show the details of the first record matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			ctl, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			u, err := ctl.Dispatch(controller.SetText{Text: text})
			if err != nil {
				return err
			}
			if len(u.Items) == 0 {
				return fmt.Errorf("no record matches %q", text)
			}

			u, err = ctl.Dispatch(controller.Select{ID: u.Items[0].ID})
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), *u.Detail)
			return nil
		},
	}
}

func printDetail(w io.Writer, v detail.View) {
	fmt.Fprintf(w, "Album:   %s\n", v.Album)
	fmt.Fprintf(w, "Artist:  %s\n", v.Artist)
	if len(v.Tags) > 0 {
		fmt.Fprintf(w, "Tags:    %s\n", strings.Join(v.Tags, ", "))
	}
	if v.Discogs != "" {
		fmt.Fprintf(w, "Discogs: %s\n", v.Discogs)
	}
	fmt.Fprintf(w, "Cover:   %s\n", v.Cover)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%d tracks\n", v.TrackCount())
	for _, track := range v.Tracks {
		fmt.Fprintf(w, "  %2d. %s\n", track.Index, track.Name)
	}
}
