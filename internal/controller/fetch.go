package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/handiism/stylus-vinyl/internal/catalog"
	"github.com/handiism/stylus-vinyl/internal/normalize"
	"github.com/handiism/stylus-vinyl/internal/source"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Batch holds the rows delivered by one source.
type Batch struct {
	Source string
	Rows   []normalize.Row
}

// Fetch retrieves the rows of every source concurrently.
//
// Either every source succeeds or Fetch returns the first failure as an
// *catalog.IngestionError naming its source. Fetch does not touch the
// store; pass its result to Ingest.
func (c *Controller[H]) Fetch(ctx context.Context) ([]Batch, error) {
	if !c.loading.CompareAndSwap(false, true) {
		return nil, ErrLoadInFlight
	}
	defer c.loading.Store(false)

	if len(c.sources) == 0 {
		return nil, catalog.NewIngestionError("", errors.New("no sources configured"))
	}

	atomic.StoreInt32(&c.fetchedSources, 0)
	atomic.StoreInt32(&c.totalSources, int32(len(c.sources)))

	batches := make([]Batch, len(c.sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.settings.MaxConcurrentFetches))

	for i, src := range c.sources {
		g.Go(func() error {
			c.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s", src.Name()), Level: LevelVerbose})

			rows, err := c.fetchSource(ctx, src)
			if err != nil {
				c.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %v", src.Name(), err), Level: LevelError})
				return catalog.NewIngestionError(src.Name(), err)
			}

			batches[i] = Batch{Source: src.Name(), Rows: rows}
			atomic.AddInt32(&c.fetchedSources, 1)
			c.log.WithFields(logrus.Fields{
				"source": src.Name(),
				"rows":   len(rows),
			}).Info("Source fetched")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (c *Controller[H]) fetchSource(ctx context.Context, src source.Source) ([]normalize.Row, error) {
	var rows []normalize.Row
	var err error

	for tries := 0; tries < c.settings.FetchMaxRetries; tries++ {
		rows, err = src.Rows(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		if tries+1 < c.settings.FetchMaxRetries {
			c.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, c.settings.FetchMaxRetries, src.Name()), Level: LevelWarning})
			c.waitForRetry(ctx, tries)
		}
	}
	return rows, err
}

func (c *Controller[H]) waitForRetry(ctx context.Context, tries int) {
	cooldown := c.settings.FetchRetryCooldown * math.Pow(c.settings.FetchRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// Ingest replaces the record set with the fetched rows and recomputes the
// View for the current query.
//
// On failure the previous record set, View and window stay in place and
// the error is an *catalog.IngestionError naming the source and the row
// within it.
func (c *Controller[H]) Ingest(batches []Batch) (Update[H], error) {
	var rows []normalize.Row
	for _, b := range batches {
		rows = append(rows, b.Rows...)
	}

	if err := c.store.Load(rows); err != nil {
		err = locate(err, batches)
		c.log.WithError(err).Error("Catalog load failed")
		c.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
		return c.update(UpdateNone, nil), err
	}

	stats := c.store.LastLoad()
	c.progress(ProgressEvent{
		Message: fmt.Sprintf("Loaded %d records (%d skipped)", stats.Kept, stats.Skipped),
		Level:   LevelSuccess,
	})
	c.selected = nil
	return c.apply(c.store.Query()), nil
}

// Load fetches and ingests in one call.
func (c *Controller[H]) Load(ctx context.Context) (Update[H], error) {
	batches, err := c.Fetch(ctx)
	if err != nil {
		return c.update(UpdateNone, nil), err
	}
	return c.Ingest(batches)
}

// locate rewrites a store row index into the source that delivered the row
// and the index within that source.
func locate(err error, batches []Batch) error {
	var ie *catalog.IngestionError
	if !errors.As(err, &ie) || ie.Row == catalog.NoRow {
		return err
	}

	row := ie.Row
	for _, b := range batches {
		if row < len(b.Rows) {
			return &catalog.IngestionError{Source: b.Source, Row: row, Err: ie.Err}
		}
		row -= len(b.Rows)
	}
	return err
}
