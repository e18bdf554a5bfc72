package controller

import (
	"github.com/handiism/stylus-vinyl/internal/catalog"
	"github.com/handiism/stylus-vinyl/internal/detail"
	"github.com/handiism/stylus-vinyl/internal/window"
)

// Event is a user intent handled by Dispatch.
type Event interface {
	event()
}

// SetQuery replaces the whole query.
type SetQuery struct {
	Query catalog.Query
}

// SetText replaces the search text and keeps the genre selection.
type SetText struct {
	Text string
}

// ToggleGenre flips one genre chip according to the configured genre mode.
type ToggleGenre struct {
	Genre string
}

// ClearQuery returns to the unfiltered browse state.
type ClearQuery struct{}

// Grow is an explicit "load more" request.
type Grow struct{}

// Approach reports that the user came close to the end of the window.
type Approach struct{}

// Select opens the detail view of a record.
type Select struct {
	ID string
}

// Back closes the detail view.
type Back struct{}

func (SetQuery) event()    {}
func (SetText) event()     {}
func (ToggleGenre) event() {}
func (ClearQuery) event()  {}
func (Grow) event()        {}
func (Approach) event()    {}
func (Select) event()      {}
func (Back) event()        {}

// UpdateKind says how the presentation should apply an Update.
type UpdateKind int

const (
	// UpdateNone means nothing changed.
	UpdateNone UpdateKind = iota

	// UpdateReset replaces every rendered item with Items.
	UpdateReset

	// UpdateAppend appends Items after the rendered ones.
	UpdateAppend

	// UpdateDetail shows Detail.
	UpdateDetail

	// UpdateBack hides the detail view.
	UpdateBack
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateReset:
		return "reset"
	case UpdateAppend:
		return "append"
	case UpdateDetail:
		return "detail"
	case UpdateBack:
		return "back"
	default:
		return "none"
	}
}

// Update is the outcome of an event.
type Update[H any] struct {
	Kind UpdateKind

	// Items holds all handles for UpdateReset and only the new ones for
	// UpdateAppend.
	Items []H

	// State, More and Total describe the window after the event.
	State window.State
	More  bool
	Total int

	// Detail is set for UpdateDetail.
	Detail *detail.View
}
