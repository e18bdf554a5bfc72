package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/handiism/stylus-vinyl/internal/catalog"
	"github.com/handiism/stylus-vinyl/internal/controller"
	"github.com/handiism/stylus-vinyl/internal/cover"
	vhttp "github.com/handiism/stylus-vinyl/internal/http"
	ioutils "github.com/handiism/stylus-vinyl/internal/io"
	"github.com/handiism/stylus-vinyl/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newCoversCommand(ctx *commandContext) *cobra.Command {
	var (
		query string
		dir   string
		force bool
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "covers",
		Short: "Save the covers of matching records as JPEG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			ctl, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			if _, err := ctl.Dispatch(controller.SetQuery{Query: catalog.Query{Text: query}}); err != nil {
				return err
			}
			records, err := collect(ctl, 0)
			if err != nil {
				return err
			}

			if dir == "" {
				dir = settings.CoversPath
			}
			saver := &coverSaver{
				client:     vhttp.NewClient(settings.Timeout()),
				images:     ioutils.NewImageService(),
				resolver:   ctl.Resolver(),
				dir:        dir,
				maxSize:    settings.CoverMaxSize,
				workers:    settings.MaxConcurrentFetches,
				force:      force,
				raw:        raw,
				onProgress: progressPrinter(cmd.ErrOrStderr(), ctx.flags.verbose),
			}
			if err := saver.saveAll(cmd.Context(), records); err != nil {
				return err
			}

			saved, skipped, failed := saver.counts()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d covers to %s (%d skipped, %d failed)\n", saved, dir, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%d covers could not be saved", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only save covers of records matching this search text")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (overrides config)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite covers that were already saved")
	cmd.Flags().BoolVar(&raw, "raw", false, "Save the proxy response as is, without resizing")
	return cmd
}

// coverSaver downloads covers through the proxy and writes them to dir.
type coverSaver struct {
	client   *vhttp.Client
	images   *ioutils.ImageService
	resolver *cover.Resolver

	dir     string
	maxSize int
	workers int
	force   bool
	raw     bool

	onProgress func(controller.ProgressEvent)

	saved   atomic.Int32
	skipped atomic.Int32
	failed  atomic.Int32
}

func (s *coverSaver) saveAll(ctx context.Context, records []model.Record) error {
	if err := ioutils.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.workers))

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		name := ioutils.CoverFileName(rec.Artist, rec.Album)
		if !rec.HasCover() || seen[name] {
			s.skipped.Add(1)
			continue
		}
		seen[name] = true

		g.Go(func() error {
			s.save(gctx, rec, filepath.Join(s.dir, name))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// save stores one cover. Failures are counted and reported, not returned,
// so that one broken cover does not stop the others.
func (s *coverSaver) save(ctx context.Context, rec model.Record, path string) {
	name := filepath.Base(path)
	if !s.force {
		if _, err := os.Stat(path); err == nil {
			s.skipped.Add(1)
			s.progress(controller.LevelVerbose, "Skipping %s: already saved", name)
			return
		}
	}

	url := s.resolver.Resolve(rec.Cover, cover.Options{Width: s.maxSize, Height: s.maxSize, Fit: cover.FitContain})
	if err := s.fetch(ctx, url, path); err != nil {
		s.failed.Add(1)
		s.progress(controller.LevelWarning, "Failed to save %s: %v", name, err)
		return
	}

	s.saved.Add(1)
	s.progress(controller.LevelSuccess, "Saved %s", name)
}

func (s *coverSaver) fetch(ctx context.Context, url, path string) error {
	if s.raw {
		return s.client.DownloadFile(ctx, url, path, func(written, total int64) {
			if written == total {
				s.progress(controller.LevelVerbose, "Downloaded %s (%d bytes)", filepath.Base(path), written)
			}
		})
	}

	data, err := s.client.DownloadBytes(ctx, url)
	if err != nil {
		return err
	}
	if s.maxSize > 0 {
		data, err = s.images.ResizeImage(ctx, data, s.maxSize, s.maxSize)
	} else {
		data, err = s.images.ConvertToJPEG(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	return ioutils.WriteFile(ctx, path, data)
}

func (s *coverSaver) counts() (saved, skipped, failed int32) {
	return s.saved.Load(), s.skipped.Load(), s.failed.Load()
}

func (s *coverSaver) progress(level controller.ProgressLevel, format string, args ...any) {
	if s.onProgress != nil {
		s.onProgress(controller.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
