// Package normalize converts raw spreadsheet rows into model.Record values.
//
// Upstream sheets vary the capitalization of their headers and sometimes
// use a different name for the same column, so every lookup is
// case-insensitive and goes through a fixed alias list:
//
//	rec, err := normalize.Normalize(normalize.Row{
//	    "ARTIST": "Miles Davis",
//	    "album":  "Kind of Blue",
//	    "Year":   "1959.0",
//	    "Tracks": "So What; Freddie Freeloader",
//	}, normalize.Options{})
//	// rec.Year == "1959", len(rec.Tracks) == 2
//
// Missing fields are not an error. Only values that cannot be represented
// as a string (nested objects) fail, so the catalog can abort ingestion.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/model"
)

// ErrUnsupportedValue is returned when a cell holds a structured value that
// has no string form.
var ErrUnsupportedValue = errors.New("unsupported cell value")

// Row is one raw record keyed by column header.
type Row map[string]any

// Field names a logical record field.
type Field string

const (
	FieldArtist  Field = "artist"
	FieldAlbum   Field = "album"
	FieldYear    Field = "year"
	FieldGenre   Field = "genre"
	FieldCover   Field = "cover"
	FieldDiscogs Field = "discogs"
	FieldTracks  Field = "tracks"
)

// Aliases lists accepted header spellings per field, in priority order.
//
//nolint:gochecknoglobals // Static lookup table for header matching
var Aliases = map[Field][]string{
	FieldArtist:  {"Artist"},
	FieldAlbum:   {"Album", "Title"},
	FieldYear:    {"Year"},
	FieldGenre:   {"Genre"},
	FieldCover:   {"cover", "Cover", "Cover URL", "Image"},
	FieldDiscogs: {"Discogs URL", "Discogs"},
	FieldTracks:  {"Tracks", "Tracklist"},
}

// trailingZero matches the ".0" a spreadsheet appends to integral numbers.
var trailingZero = regexp.MustCompile(`\.0$`)

// Options tunes normalization.
type Options struct {
	// SplitOnComma makes "," a track separator in addition to ";", "·" and "|".
	SplitOnComma bool
}

// Normalize converts a raw row into a Record.
//
// The returned record is not validity-checked; that is the catalog's job.
// Its ID is left empty because it depends on the other rows of the load.
func Normalize(row Row, opts Options) (model.Record, error) {
	var rec model.Record

	scalars := []struct {
		field Field
		dst   *string
	}{
		{FieldArtist, &rec.Artist},
		{FieldAlbum, &rec.Album},
		{FieldYear, &rec.Year},
		{FieldGenre, &rec.Genre},
		{FieldCover, &rec.Cover},
		{FieldDiscogs, &rec.Discogs},
	}
	for _, s := range scalars {
		v, err := row.String(s.field)
		if err != nil {
			return model.Record{}, err
		}
		*s.dst = v
	}
	rec.Year = trailingZero.ReplaceAllString(rec.Year, "")

	raw, _ := row.Lookup(FieldTracks)
	if err := checkTracks(raw); err != nil {
		return model.Record{}, err
	}
	rec.Tracks = model.SplitTracks(trackInput(raw), opts.SplitOnComma)

	return rec, nil
}

// Lookup returns the raw value of a field.
//
// Aliases are tried in priority order; for each alias an exact key match
// wins over a case-insensitive one, and case-insensitive matches are taken
// in sorted key order. Empty values are skipped so a later
// alias can still provide the field.
func (r Row) Lookup(field Field) (any, bool) {
	for _, alias := range Aliases[field] {
		if v, ok := r[alias]; ok && !isEmpty(v) {
			return v, true
		}
		for _, key := range slices.Sorted(maps.Keys(r)) {
			if v := r[key]; strings.EqualFold(key, alias) && !isEmpty(v) {
				return v, true
			}
		}
	}
	return nil, false
}

// String returns the string form of a scalar field, or "" if the field is
// absent.
func (r Row) String(field Field) (string, error) {
	v, ok := r.Lookup(field)
	if !ok {
		return "", nil
	}
	s, err := Stringify(v)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", field, err)
	}
	return s, nil
}

// Stringify converts a scalar cell value to its display string.
//
// Integral floats lose their fractional part ("1999" rather than "1999.0"),
// json.Number keeps its literal text.
func Stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

// trackInput adapts a raw tracks value for model.SplitTracks.
func trackInput(v any) any {
	switch t := v.(type) {
	case nil, string, []string, []any:
		return t
	}
	s, _ := Stringify(v)
	return s
}

func checkTracks(v any) error {
	switch t := v.(type) {
	case nil, string, []string:
		return nil
	case []any:
		for _, item := range t {
			if _, err := Stringify(item); err != nil {
				return fmt.Errorf("field %s: %w", FieldTracks, err)
			}
		}
		return nil
	}
	if _, err := Stringify(v); err != nil {
		return fmt.Errorf("field %s: %w", FieldTracks, err)
	}
	return nil
}
