package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// GenreMode selects how genre chips combine.
type GenreMode int

const (
	// GenreSingle allows one genre at a time, with an implicit "all".
	GenreSingle GenreMode = iota

	// GenreMulti allows any set of genres; the empty set means all.
	GenreMulti
)

// ParseGenreMode converts a settings value to a GenreMode. Unknown values
// map to GenreSingle.
func ParseGenreMode(s string) GenreMode {
	if strings.EqualFold(s, "multi") {
		return GenreMulti
	}
	return GenreSingle
}

// String returns the settings form of the mode.
func (m GenreMode) String() string {
	if m == GenreMulti {
		return "multi"
	}
	return "single"
}

// Query is the current user intent: free text plus a genre selection.
type Query struct {
	// Text is matched case-insensitively against album, artist, genre and
	// track names.
	Text string

	// Genres restricts the View to these genres. Empty means all genres.
	Genres []string
}

// IsDefault reports whether the query is the unfiltered browse state.
func (q Query) IsDefault() bool {
	return strings.TrimSpace(q.Text) == "" && len(cleanGenres(q.Genres)) == 0
}

// Normalized returns q with the text trimmed and case-folded and the genre
// selection trimmed, deduplicated and sorted. An empty selection is nil.
func (q Query) Normalized() Query {
	out := Query{
		Text:   cases.Fold().String(strings.TrimSpace(q.Text)),
		Genres: cleanGenres(q.Genres),
	}
	if len(out.Genres) == 0 {
		out.Genres = nil
	}
	return out
}

// HasGenre reports whether g is part of the selection.
func (q Query) HasGenre(g string) bool {
	return slices.Contains(q.Genres, strings.TrimSpace(g))
}

// WithText returns a copy of q with new search text.
func (q Query) WithText(text string) Query {
	q.Genres = slices.Clone(q.Genres)
	q.Text = text
	return q
}

// ToggleGenre returns a copy of q with g toggled.
//
// In GenreSingle mode selecting a genre replaces the selection and toggling
// the selected genre clears it back to "all". In GenreMulti mode g is added
// or removed. An empty g clears the selection in both modes.
func (q Query) ToggleGenre(g string, mode GenreMode) Query {
	g = strings.TrimSpace(g)
	if g == "" {
		q.Genres = nil
		return q
	}

	if mode == GenreSingle {
		if len(q.Genres) == 1 && q.Genres[0] == g {
			q.Genres = nil
		} else {
			q.Genres = []string{g}
		}
		return q
	}

	genres := slices.Clone(q.Genres)
	if i := slices.Index(genres, g); i >= 0 {
		genres = slices.Delete(genres, i, i+1)
	} else {
		genres = append(genres, g)
	}
	if len(genres) == 0 {
		genres = nil
	}
	q.Genres = genres
	return q
}

// cleanGenres trims, drops empties, deduplicates and sorts a selection.
func cleanGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g != "" {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
