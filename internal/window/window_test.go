package window

import (
	"errors"
	"fmt"
	"testing"

	"github.com/handiism/stylus-vinyl/internal/model"
)

type handle struct {
	album string
	seq   int
}

func records(n int) []model.Record {
	recs := make([]model.Record, n)
	for i := range recs {
		recs[i] = model.Record{ID: fmt.Sprint(i), Album: fmt.Sprintf("Album %d", i)}
	}
	return recs
}

func newCounting(increment int) (*Renderer[*handle], *int) {
	count := 0
	r := New(increment, func(rec model.Record) *handle {
		count++
		return &handle{album: rec.Album, seq: count}
	})
	return r, &count
}

func TestRenderer_ResetSmallView(t *testing.T) {
	r, _ := newCounting(40)
	items := r.Reset(records(2))

	if len(items) != 2 {
		t.Errorf("Reset() returned %d items, want 2", len(items))
	}
	if r.More() {
		t.Error("More() = true, want false")
	}
	if r.State() != StateComplete {
		t.Errorf("State() = %v, want complete", r.State())
	}
	if r.Trigger().Armed() {
		t.Error("trigger should not be armed when nothing is left")
	}
}

func TestRenderer_Empty(t *testing.T) {
	r, _ := newCounting(40)
	items := r.Reset(nil)

	if len(items) != 0 {
		t.Errorf("Reset() returned %d items, want 0", len(items))
	}
	if !r.Empty() || r.State() != StateEmpty {
		t.Errorf("Empty() = %v, State() = %v, want explicit empty state", r.Empty(), r.State())
	}
	if _, err := r.Grow(); !errors.Is(err, ErrNoMore) {
		t.Errorf("Grow() error = %v, want ErrNoMore", err)
	}
}

func TestRenderer_GrowMaterializesOnlyNewSlice(t *testing.T) {
	r, count := newCounting(40)
	r.Reset(records(100))
	if *count != 40 {
		t.Fatalf("Reset materialized %d, want 40", *count)
	}

	first := append([]*handle(nil), r.Items()...)

	added, err := r.Grow()
	if err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if len(added) != 40 || *count != 80 {
		t.Errorf("Grow() added %d (total materialized %d), want 40 (80)", len(added), *count)
	}
	if added[0].album != "Album 40" {
		t.Errorf("first appended = %q, want Album 40", added[0].album)
	}

	added, err = r.Grow()
	if err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if len(added) != 20 || r.More() {
		t.Errorf("last Grow() added %d, More() = %v; want 20, false", len(added), r.More())
	}

	for i, h := range first {
		if r.Items()[i] != h {
			t.Fatalf("item %d was re-created", i)
		}
	}
	if r.Materialized() != 100 {
		t.Errorf("Materialized() = %d, want 100", r.Materialized())
	}

	if _, err := r.Grow(); !errors.Is(err, ErrNoMore) {
		t.Errorf("Grow() past end error = %v, want ErrNoMore", err)
	}
}

func TestRenderer_Monotonic(t *testing.T) {
	r, _ := newCounting(7)
	r.Reset(records(50))

	seen := map[int]*handle{}
	prev := 0
	for r.More() {
		if _, err := r.Grow(); err != nil {
			t.Fatalf("Grow() error = %v", err)
		}
		if r.Len() <= prev {
			t.Fatalf("window shrank or stalled: %d -> %d", prev, r.Len())
		}
		prev = r.Len()
		for i, h := range r.Items() {
			if old, ok := seen[i]; ok && old != h {
				t.Fatalf("item %d replaced", i)
			}
			seen[i] = h
		}
	}
	if r.Len() != 50 {
		t.Errorf("Len() = %d, want 50", r.Len())
	}
}

func TestRenderer_ResetDiscardsWindow(t *testing.T) {
	r, count := newCounting(10)
	r.Reset(records(30))
	r.Grow()

	items := r.Reset(records(5))
	if len(items) != 5 || r.Limit() != 10 {
		t.Errorf("Reset() = %d items, limit %d; want 5, 10", len(items), r.Limit())
	}
	if *count != 25 {
		t.Errorf("materialized %d, want 25", *count)
	}
}

func TestRenderer_ApproachFiresOnce(t *testing.T) {
	r, count := newCounting(10)
	r.Reset(records(35))

	if !r.Trigger().Armed() {
		t.Fatal("trigger should be armed after Reset with more available")
	}

	// A proximity event that fires twice before the UI re-arms.
	r.Trigger().Fire()
	if _, ok := r.Approach(); ok {
		t.Error("Approach() grew while trigger was disarmed")
	}
	if *count != 10 {
		t.Errorf("materialized %d, want 10", *count)
	}

	// A successful Grow re-arms while more is left.
	if _, err := r.Grow(); err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if !r.Trigger().Armed() {
		t.Error("trigger should re-arm after Grow leaves more")
	}

	if _, ok := r.Approach(); !ok {
		t.Error("Approach() should grow when armed")
	}
	if r.Len() != 30 {
		t.Errorf("Len() = %d, want 30", r.Len())
	}

	if _, ok := r.Approach(); !ok {
		t.Error("Approach() should grow the final slice")
	}
	if r.Trigger().Armed() {
		t.Error("trigger should stay disarmed once the window is complete")
	}
	if _, ok := r.Approach(); ok {
		t.Error("Approach() grew past the end")
	}
}

func TestRenderer_ReentrantApproach(t *testing.T) {
	var r *Renderer[int]
	reentered := 0
	r = New(10, func(rec model.Record) int {
		// A proximity event delivered while materialization is running.
		if r != nil {
			if _, ok := r.Approach(); ok {
				reentered++
			}
		}
		return 0
	})

	r.Reset(records(100))
	if _, ok := r.Approach(); !ok {
		t.Fatal("Approach() should grow when armed")
	}
	if _, err := r.Grow(); err != nil {
		t.Fatalf("Grow() error = %v", err)
	}

	if reentered != 0 {
		t.Errorf("re-entrant Approach() grew %d times, want 0", reentered)
	}
	if r.Len() != 30 {
		t.Errorf("Len() = %d, want 30", r.Len())
	}
}

func TestRenderer_Record(t *testing.T) {
	r, _ := newCounting(2)
	r.Reset(records(5))

	if rec, ok := r.Record(1); !ok || rec.Album != "Album 1" {
		t.Errorf("Record(1) = %+v, %v", rec, ok)
	}
	if _, ok := r.Record(2); ok {
		t.Error("Record(2) should be outside the window")
	}
}

func TestNew_DefaultIncrement(t *testing.T) {
	r := New(0, func(rec model.Record) string { return rec.Album })
	if r.Increment() != DefaultIncrement {
		t.Errorf("Increment() = %d, want %d", r.Increment(), DefaultIncrement)
	}
}
