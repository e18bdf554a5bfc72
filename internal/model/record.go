package model

import (
	"strings"

	"github.com/google/uuid"
)

// PlaceholderStatus is the value the upstream sheet writes in the album or
// artist column while a row is still being entered.
const PlaceholderStatus = "ok"

// recordNamespace scopes record IDs so they never collide with other UUIDv5
// users of the same inputs.
var recordNamespace = uuid.MustParse("6f1c3a4e-2b7d-5c1e-9a0f-3d2e8b4c7a91")

// Record represents one entry of the music collection.
//
// Records are produced by the normalize package and owned by the catalog
// Store. Every field is a display string; nothing is parsed into richer
// types because the collection is only browsed, never computed on.
type Record struct {
	// ID identifies the record within one load. It is derived from the
	// record's content, so reloading the same sheet yields the same IDs.
	ID string

	// Artist is the album artist name.
	Artist string

	// Album is the album title.
	Album string

	// Year is the release year as displayed, e.g. "1959".
	Year string

	// Genre is a single genre label. Empty is allowed.
	Genre string

	// Cover is the raw cover reference: an absolute URL, a protocol-relative
	// URL or a bare filename. It is resolved lazily by the cover package.
	Cover string

	// Discogs is an optional link to the release page.
	Discogs string

	// Tracks is the ordered track list.
	Tracks []string
}

// Valid reports whether the record may enter the catalog.
//
// A record is valid when it has an album or an artist, and neither of them
// is the "OK" placeholder status (compared case-insensitively after
// trimming).
func (r Record) Valid() bool {
	album := strings.TrimSpace(r.Album)
	artist := strings.TrimSpace(r.Artist)
	if album == "" && artist == "" {
		return false
	}
	return !strings.EqualFold(album, PlaceholderStatus) && !strings.EqualFold(artist, PlaceholderStatus)
}

// HasCover returns true if the record carries a cover reference.
func (r Record) HasCover() bool {
	return strings.TrimSpace(r.Cover) != ""
}

// TrimmedGenre returns the genre with surrounding whitespace removed, which
// is the form genre filters compare against.
func (r Record) TrimmedGenre() string {
	return strings.TrimSpace(r.Genre)
}

// Title returns "Artist - Album", or whichever half is present.
func (r Record) Title() string {
	switch {
	case r.Artist == "":
		return r.Album
	case r.Album == "":
		return r.Artist
	}
	return r.Artist + " - " + r.Album
}

// RecordID computes the deterministic ID for a record.
//
// occurrence disambiguates rows that share artist, album and year; the first
// occurrence is 0.
func RecordID(r Record, occurrence int) string {
	key := strings.Join([]string{r.Artist, r.Album, r.Year}, "\x1f")
	if occurrence > 0 {
		key += "\x1f" + strings.Repeat("#", occurrence)
	}
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}
