// Package export writes a catalog View as text, CSV, JSON or an extended
// M3U listing.
//
// # Basic Usage
//
//	exp := export.NewExporter(export.FormatCSV, resolver)
//	err := exp.Export(os.Stdout, view)
//
// Supported formats:
//   - text: one line per record, optionally followed by its tracks
//   - csv: a header line plus one row per record, tracks joined by "; "
//   - json: an array of objects
//   - m3u: #EXTM3U listing linking each record's Discogs page or cover
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/model"
)

// Format represents supported export formats.
type Format int

const (
	// FormatText writes a human readable listing.
	FormatText Format = iota

	// FormatCSV writes comma separated values with a header line.
	FormatCSV

	// FormatJSON writes an indented JSON array.
	FormatJSON

	// FormatM3U writes an extended M3U listing. Each entry points at the
	// record's Discogs page, or its large cover when there is none.
	FormatM3U
)

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "m3u", "m3u8":
		return FormatM3U, nil
	default:
		return FormatText, fmt.Errorf("unknown export format %q (must be text, csv, json, or m3u)", s)
	}
}

// Ext returns the file extension of the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatM3U:
		return ".m3u"
	default:
		return ".txt"
	}
}

// Entry is the JSON form of a record.
type Entry struct {
	ID      string   `json:"id"`
	Artist  string   `json:"artist"`
	Album   string   `json:"album"`
	Year    string   `json:"year,omitempty"`
	Genre   string   `json:"genre,omitempty"`
	Cover   string   `json:"cover"`
	Discogs string   `json:"discogs,omitempty"`
	Tracks  []string `json:"tracks"`
}

// Exporter writes records in one format.
//
// Example:
//
//	exp := NewExporter(FormatText, resolver)
//	exp.Tracks = true
//	exp.Export(os.Stdout, records)
//
//	// Result:
//	// Miles Davis - Kind of Blue (1959) [Jazz]
//	//   1. So What
//	//   2. Blue in Green
type Exporter struct {
	format   Format
	resolver *cover.Resolver

	// Tracks makes the text format list the tracks under each record.
	Tracks bool
}

// NewExporter creates an Exporter. resolver turns cover references into
// URLs; a nil resolver uses cover.DefaultConfig.
func NewExporter(format Format, resolver *cover.Resolver) *Exporter {
	if resolver == nil {
		resolver = cover.NewResolver(cover.DefaultConfig())
	}
	return &Exporter{format: format, resolver: resolver}
}

// Format returns the output format.
func (e *Exporter) Format() Format {
	return e.format
}

// Export writes records to w.
func (e *Exporter) Export(w io.Writer, records []model.Record) error {
	switch e.format {
	case FormatCSV:
		return e.exportCSV(w, records)
	case FormatJSON:
		return e.exportJSON(w, records)
	case FormatM3U:
		return e.exportM3U(w, records)
	default:
		return e.exportText(w, records)
	}
}

// Entry converts a record to its exported form.
func (e *Exporter) Entry(rec model.Record) Entry {
	tracks := rec.Tracks
	if tracks == nil {
		tracks = []string{}
	}
	return Entry{
		ID:      rec.ID,
		Artist:  rec.Artist,
		Album:   rec.Album,
		Year:    rec.Year,
		Genre:   rec.TrimmedGenre(),
		Cover:   e.resolver.Resolve(rec.Cover, cover.Thumb),
		Discogs: rec.Discogs,
		Tracks:  tracks,
	}
}

// Line formats the one-line summary of a record.
func Line(rec model.Record) string {
	var sb strings.Builder
	sb.WriteString(rec.Title())
	if rec.Year != "" {
		fmt.Fprintf(&sb, " (%s)", rec.Year)
	}
	if g := rec.TrimmedGenre(); g != "" {
		fmt.Fprintf(&sb, " [%s]", g)
	}
	return sb.String()
}

func (e *Exporter) exportText(w io.Writer, records []model.Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, Line(rec)); err != nil {
			return err
		}
		if !e.Tracks {
			continue
		}
		for i, track := range rec.Tracks {
			if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, track); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Exporter) exportCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Artist", "Album", "Year", "Genre", "Cover", "Discogs", "Tracks"}); err != nil {
		return err
	}
	for _, rec := range records {
		en := e.Entry(rec)
		row := []string{en.ID, en.Artist, en.Album, en.Year, en.Genre, en.Cover, en.Discogs, strings.Join(en.Tracks, "; ")}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *Exporter) exportJSON(w io.Writer, records []model.Record) error {
	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = e.Entry(rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// exportM3U generates an extended M3U listing:
//
//	#EXTM3U
//	#EXTINF:-1,Artist - Album
//	#EXTALB:Album
//	#EXTART:Artist
//	#EXTIMG:https://images.weserv.nl/?url=...
//	https://www.discogs.com/...
func (e *Exporter) exportM3U(w io.Writer, records []model.Record) error {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")

	for _, rec := range records {
		fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", m3uText(Line(rec)))
		if rec.Album != "" {
			fmt.Fprintf(&sb, "#EXTALB:%s\n", m3uText(rec.Album))
		}
		if rec.Artist != "" {
			fmt.Fprintf(&sb, "#EXTART:%s\n", m3uText(rec.Artist))
		}
		if g := rec.TrimmedGenre(); g != "" {
			fmt.Fprintf(&sb, "#EXTGENRE:%s\n", m3uText(g))
		}
		fmt.Fprintf(&sb, "#EXTIMG:%s\n", e.resolver.Resolve(rec.Cover, cover.Thumb))

		location := strings.TrimSpace(rec.Discogs)
		if location == "" {
			location = e.resolver.Resolve(rec.Cover, cover.Large)
		}
		sb.WriteString(location + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// m3uText keeps directive values on one line.
func m3uText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
