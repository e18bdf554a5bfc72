// Package source provides the inbound data sources of the catalog.
//
// A Source delivers raw rows keyed by column header; the catalog Store
// normalizes them. Three kinds are supported:
//
//   - gviz: a Google Sheets visualization export
//     (https://docs.google.com/spreadsheets/d/<id>/gviz/tq?tqx=out:json)
//   - csv: a CSV export with a header line
//   - tags: a local directory of MP3 files, one row per album
//
// gviz and csv locations may be http(s) URLs or local file paths.
//
//	src, err := source.New(source.Spec{Type: source.TypeGViz, Location: sheetURL}, client)
//	rows, err := src.Rows(ctx)
//
// # gviz Format
//
// The export is JSONP: a comment and a setResponse(...) call wrapping the
// JSON payload. The wrapper is stripped, numbers are kept as json.Number so
// spreadsheet values such as 1999.0 keep their literal text.
package source
