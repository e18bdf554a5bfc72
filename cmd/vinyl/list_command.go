package main

import (
	"github.com/handiism/stylus-vinyl/internal/catalog"
	"github.com/handiism/stylus-vinyl/internal/controller"
	"github.com/handiism/stylus-vinyl/internal/export"
	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		query  string
		genres []string
		format string
		limit  int
		tracks bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records matching a query",
		Long: `List records in catalog order: shuffled for the default query and
sorted by artist for searches and genre filters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			ctl, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			if _, err := ctl.Dispatch(controller.SetQuery{Query: catalog.Query{Text: query, Genres: genres}}); err != nil {
				return err
			}

			records, err := collect(ctl, limit)
			if err != nil {
				return err
			}

			exporter := export.NewExporter(f, ctl.Resolver())
			exporter.Tracks = tracks
			return exporter.Export(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text matched against album, artist, genre and tracks")
	cmd.Flags().StringArrayVarP(&genres, "genre", "g", nil, "Restrict to a genre (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, csv, json or m3u")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of records (0 lists every match)")
	cmd.Flags().BoolVar(&tracks, "tracks", false, "List tracks under each record (text format)")
	return cmd
}
