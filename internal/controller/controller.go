package controller

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/handiism/stylus-vinyl/internal/catalog"
	"github.com/handiism/stylus-vinyl/internal/config"
	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/detail"
	"github.com/handiism/stylus-vinyl/internal/logging"
	"github.com/handiism/stylus-vinyl/internal/model"
	"github.com/handiism/stylus-vinyl/internal/source"
	"github.com/handiism/stylus-vinyl/internal/window"
	"github.com/sirupsen/logrus"
)

var (
	// ErrLoadInFlight is returned when a load is requested while another
	// one has not finished.
	ErrLoadInFlight = errors.New("a catalog load is already in progress")

	// ErrNoSelection is returned when a selected record does not exist.
	ErrNoSelection = errors.New("no such record")
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a status line for the user.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Deps are the collaborators of a Controller.
type Deps[H any] struct {
	// Sources are fetched by Fetch, in order.
	Sources []source.Source

	// Materialize builds the presentation handle of a record.
	Materialize func(model.Record) H

	// Logger defaults to a discarding logger.
	Logger logrus.FieldLogger

	// Rand overrides the store's shuffle source.
	Rand *rand.Rand

	// OnProgress receives status lines. May be nil.
	OnProgress func(ProgressEvent)
}

// Controller coordinates the store, the window and the detail projector.
type Controller[H any] struct {
	settings  *config.Settings
	sources   []source.Source
	store     *catalog.Store
	window    *window.Renderer[H]
	projector *detail.Projector
	resolver  *cover.Resolver
	mode      catalog.GenreMode
	log       logrus.FieldLogger

	selected *detail.View

	loading        atomic.Bool
	fetchedSources int32
	totalSources   int32

	onProgress func(ProgressEvent)
}

// New creates a Controller from settings.
func New[H any](settings *config.Settings, deps Deps[H]) *Controller[H] {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	opts := settings.ToStoreOptions(log)
	opts.Rand = deps.Rand
	resolver := cover.NewResolver(settings.ToCoverConfig())

	return &Controller[H]{
		settings:   settings,
		sources:    deps.Sources,
		store:      catalog.NewStore(opts),
		window:     window.New(settings.PageSize, deps.Materialize),
		projector:  detail.NewProjector(resolver),
		resolver:   resolver,
		mode:       settings.ToGenreMode(),
		log:        log,
		onProgress: deps.OnProgress,
	}
}

// Dispatch applies ev and reports how the presentation must change.
func (c *Controller[H]) Dispatch(ev Event) (Update[H], error) {
	switch e := ev.(type) {
	case SetQuery:
		return c.apply(e.Query), nil
	case SetText:
		return c.apply(c.store.Query().WithText(e.Text)), nil
	case ToggleGenre:
		return c.apply(c.store.Query().ToggleGenre(e.Genre, c.mode)), nil
	case ClearQuery:
		return c.apply(catalog.Query{}), nil
	case Grow:
		items, err := c.window.Grow()
		if err != nil {
			return c.update(UpdateNone, nil), err
		}
		return c.update(UpdateAppend, items), nil
	case Approach:
		items, ok := c.window.Approach()
		if !ok {
			return c.update(UpdateNone, nil), nil
		}
		c.log.WithField("limit", c.window.Limit()).Debug("Window grown by proximity")
		return c.update(UpdateAppend, items), nil
	case Select:
		rec, ok := c.store.Record(e.ID)
		if !ok {
			return c.update(UpdateNone, nil), fmt.Errorf("%w: %s", ErrNoSelection, e.ID)
		}
		v := c.projector.Project(rec)
		c.selected = &v
		u := c.update(UpdateDetail, nil)
		u.Detail = c.selected
		return u, nil
	case Back:
		if c.selected == nil {
			return c.update(UpdateNone, nil), nil
		}
		c.selected = nil
		return c.update(UpdateBack, nil), nil
	default:
		return c.update(UpdateNone, nil), fmt.Errorf("unknown event %T", ev)
	}
}

// apply recomputes the View for q and resets the window.
func (c *Controller[H]) apply(q catalog.Query) Update[H] {
	view := c.store.SetQuery(q)
	items := c.window.Reset(view)
	c.log.WithFields(logrus.Fields{
		"text":    c.store.Query().Text,
		"genres":  c.store.Query().Genres,
		"matches": len(view),
	}).Debug("Query applied")
	return c.update(UpdateReset, items)
}

func (c *Controller[H]) update(kind UpdateKind, items []H) Update[H] {
	return Update[H]{
		Kind:  kind,
		Items: items,
		State: c.window.State(),
		More:  c.window.More(),
		Total: c.window.Total(),
	}
}

// Query returns the current query.
func (c *Controller[H]) Query() catalog.Query {
	return c.store.Query()
}

// View returns the current View.
func (c *Controller[H]) View() catalog.View {
	return c.store.View()
}

// Genres returns the known genres in display order.
func (c *Controller[H]) Genres() []string {
	return c.store.Genres()
}

// GenreMode returns the configured genre mode.
func (c *Controller[H]) GenreMode() catalog.GenreMode {
	return c.mode
}

// Items returns the handles materialized so far.
func (c *Controller[H]) Items() []H {
	return c.window.Items()
}

// RecordAt returns the record rendered at window position i.
func (c *Controller[H]) RecordAt(i int) (model.Record, bool) {
	return c.window.Record(i)
}

// More reports whether the window can grow.
func (c *Controller[H]) More() bool {
	return c.window.More()
}

// State returns the window state.
func (c *Controller[H]) State() window.State {
	return c.window.State()
}

// Selected returns the open detail view, if any.
func (c *Controller[H]) Selected() (detail.View, bool) {
	if c.selected == nil {
		return detail.View{}, false
	}
	return *c.selected, true
}

// Resolver returns the cover resolver shared with the detail projector.
func (c *Controller[H]) Resolver() *cover.Resolver {
	return c.resolver
}

// Stats returns the outcome of the last successful load.
func (c *Controller[H]) Stats() catalog.LoadStats {
	return c.store.LastLoad()
}

// Loading reports whether a fetch is in flight.
func (c *Controller[H]) Loading() bool {
	return c.loading.Load()
}

// GetProgress returns how many sources the current or last fetch completed.
func (c *Controller[H]) GetProgress() (fetched, total int32) {
	return atomic.LoadInt32(&c.fetchedSources), atomic.LoadInt32(&c.totalSources)
}

func (c *Controller[H]) progress(event ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(event)
	}
}
