package tui

import (
	"strings"

	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/model"
	"github.com/mattn/go-runewidth"
)

const (
	// cardWidth is the inner width of a grid card, padding included.
	cardWidth = 26

	// cardHeight is the rendered height of a card, borders included.
	cardHeight = 5

	untitled = "(untitled)"
)

// card is the rendered handle of one record in the grid.
type card struct {
	ID     string
	Title  string
	Artist string
	Meta   string
	Thumb  string
}

// newCardFunc returns the materializer used by the window renderer.
func newCardFunc(resolver *cover.Resolver) func(model.Record) card {
	return func(r model.Record) card {
		title := strings.TrimSpace(r.Album)
		if title == "" {
			title = untitled
		}

		var meta []string
		if r.Year != "" {
			meta = append(meta, r.Year)
		}
		if g := r.TrimmedGenre(); g != "" {
			meta = append(meta, g)
		}

		return card{
			ID:     r.ID,
			Title:  title,
			Artist: strings.TrimSpace(r.Artist),
			Meta:   strings.Join(meta, " · "),
			Thumb:  resolver.Resolve(r.Cover, cover.Thumb),
		}
	}
}

func (c card) render(selected bool) string {
	inner := cardWidth - 2
	lines := []string{
		albumStyle.Render(truncate(c.Title, inner)),
		truncate(c.Artist, inner),
		dimStyle.Render(truncate(c.Meta, inner)),
	}

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
