// Package model defines the core data structures used throughout
// the stylus-vinyl catalog viewer.
//
// # Record
//
// Record is one catalog entry: an album with its artist, display year,
// genre, cover reference and ordered track list.
//
//	rec := model.Record{Artist: "Miles Davis", Album: "Kind of Blue"}
//	if !rec.Valid() {
//	    // dropped at ingestion
//	}
//
// # Tracks
//
// SplitTracks turns the delimited track cell of a spreadsheet row into
// an ordered list:
//
//	model.SplitTracks("So What ; Freddie Freeloader · Blue in Green", false)
//	// ["So What", "Freddie Freeloader", "Blue in Green"]
//
// Already-split input ([]string, []any) is passed through.
package model
