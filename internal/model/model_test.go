package model

import (
	"reflect"
	"testing"
)

func TestRecord_Valid(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"placeholder album", Record{Album: "OK", Artist: "Miles Davis"}, false},
		{"both empty", Record{Album: "", Artist: ""}, false},
		{"album only", Record{Album: "Kind of Blue", Artist: ""}, true},
		{"lowercase placeholder artist", Record{Album: "", Artist: "ok"}, false},
		{"padded placeholder", Record{Album: "  Ok ", Artist: "Someone"}, false},
		{"whitespace only", Record{Album: "   ", Artist: "\t"}, false},
		{"artist only", Record{Artist: "Coltrane"}, true},
		{"placeholder as substring", Record{Album: "OK Computer", Artist: "Radiohead"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitTracks(t *testing.T) {
	tests := []struct {
		name  string
		input any
		comma bool
		want  []string
	}{
		{"mixed separators", "Track A ; Track B · Track C", false, []string{"Track A", "Track B", "Track C"}},
		{"pipe", "One|Two | Three", false, []string{"One", "Two", "Three"}},
		{"empty segments dropped", ";; A ;  ; B ;", false, []string{"A", "B"}},
		{"comma kept by default", "Hello, Goodbye; Help", false, []string{"Hello, Goodbye", "Help"}},
		{"comma split enabled", "Hello, Goodbye; Help", true, []string{"Hello", "Goodbye", "Help"}},
		{"empty string", "", false, []string{}},
		{"nil", nil, false, []string{}},
		{"already split", []string{"x ; y"}, false, []string{"x ; y"}},
		{"any slice", []any{"a", 2}, false, []string{"a", "2"}},
		{"any slice with nulls", []any{nil, "a", nil}, false, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTracks(tt.input, tt.comma)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTracks(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordID(t *testing.T) {
	rec := Record{Artist: "Bill Evans", Album: "Waltz for Debby", Year: "1962"}

	if RecordID(rec, 0) != RecordID(rec, 0) {
		t.Error("RecordID should be deterministic")
	}
	if RecordID(rec, 0) == RecordID(rec, 1) {
		t.Error("RecordID should differ between occurrences")
	}

	other := rec
	other.Year = "1961"
	if RecordID(rec, 0) == RecordID(other, 0) {
		t.Error("RecordID should depend on the year")
	}
}

func TestRecord_Title(t *testing.T) {
	tests := []struct {
		rec  Record
		want string
	}{
		{Record{Artist: "A", Album: "B"}, "A - B"},
		{Record{Album: "B"}, "B"},
		{Record{Artist: "A"}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.rec.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
