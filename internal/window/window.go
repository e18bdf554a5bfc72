package window

import (
	"errors"

	"github.com/handiism/stylus-vinyl/internal/model"
)

// DefaultIncrement is the number of records materialized per step.
const DefaultIncrement = 40

// ErrNoMore is returned by Grow when the whole View is already exposed.
var ErrNoMore = errors.New("window: no more records")

// State summarizes the window for the presentation layer.
type State int

const (
	// StateEmpty means the View has no records.
	StateEmpty State = iota

	// StatePartial means more records are available.
	StatePartial

	// StateComplete means the whole View is materialized.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Renderer owns the limit cursor over a View and the handles materialized
// for it. It is not safe for concurrent use.
type Renderer[H any] struct {
	increment   int
	materialize func(model.Record) H

	view    []model.Record
	limit   int
	items   []H
	trigger Trigger

	materialized int
}

// New creates a Renderer that grows by increment records at a time. A
// non-positive increment uses DefaultIncrement.
func New[H any](increment int, materialize func(model.Record) H) *Renderer[H] {
	if increment <= 0 {
		increment = DefaultIncrement
	}
	return &Renderer[H]{
		increment:   increment,
		materialize: materialize,
	}
}

// Reset discards the current window, exposes the first increment of view
// and returns the handles created for it.
func (r *Renderer[H]) Reset(view []model.Record) []H {
	r.trigger.arm(false)
	r.view = view
	r.limit = r.increment
	r.items = make([]H, 0, min(r.limit, len(view)))
	r.fill(0, min(r.limit, len(view)))
	r.trigger.arm(r.More())
	return r.items
}

// Grow exposes the next increment of the View and returns only the newly
// created handles. It returns ErrNoMore when nothing is left.
//
// The trigger stays disarmed while handles are being materialized.
func (r *Renderer[H]) Grow() ([]H, error) {
	if !r.More() {
		return nil, ErrNoMore
	}

	r.trigger.arm(false)
	start := len(r.items)
	r.limit += r.increment
	r.fill(start, min(r.limit, len(r.view)))
	r.trigger.arm(r.More())
	return r.items[start:len(r.items):len(r.items)], nil
}

// Approach signals that the user is close to the end of the window. It
// grows the window if the trigger is armed and reports whether it did.
func (r *Renderer[H]) Approach() ([]H, bool) {
	if !r.trigger.Fire() {
		return nil, false
	}
	items, err := r.Grow()
	if err != nil {
		return nil, false
	}
	return items, true
}

// More reports whether the View extends past the window.
func (r *Renderer[H]) More() bool {
	return r.limit < len(r.view)
}

// Empty reports whether the current View has no records.
func (r *Renderer[H]) Empty() bool {
	return len(r.view) == 0
}

// State returns the window state.
func (r *Renderer[H]) State() State {
	switch {
	case r.Empty():
		return StateEmpty
	case r.More():
		return StatePartial
	default:
		return StateComplete
	}
}

// Items returns the materialized handles, in View order.
func (r *Renderer[H]) Items() []H {
	return r.items
}

// Record returns the record behind the i-th materialized handle.
func (r *Renderer[H]) Record(i int) (model.Record, bool) {
	if i < 0 || i >= len(r.items) {
		return model.Record{}, false
	}
	return r.view[i], true
}

// Len returns the number of materialized handles.
func (r *Renderer[H]) Len() int {
	return len(r.items)
}

// Limit returns the current cursor. It may exceed Total.
func (r *Renderer[H]) Limit() int {
	return r.limit
}

// Total returns the length of the current View.
func (r *Renderer[H]) Total() int {
	return len(r.view)
}

// Increment returns the growth step.
func (r *Renderer[H]) Increment() int {
	return r.increment
}

// Trigger exposes the continuation trigger state.
func (r *Renderer[H]) Trigger() *Trigger {
	return &r.trigger
}

// Materialized returns how many handles have been created since New,
// across resets.
func (r *Renderer[H]) Materialized() int {
	return r.materialized
}

func (r *Renderer[H]) fill(from, to int) {
	for i := from; i < to; i++ {
		r.items = append(r.items, r.materialize(r.view[i]))
		r.materialized++
	}
}
