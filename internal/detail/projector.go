// Package detail projects a single record into its fully resolved detail
// representation.
package detail

import (
	"fmt"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/model"
)

// VariantWidths are the responsive cover tiers, in pixels.
var VariantWidths = []int{390, 750, 900}

// Track is one numbered entry of the track list.
type Track struct {
	// Index is 1-based.
	Index int
	Name  string
}

// Variant is a square cover rendition for adaptive layouts.
type Variant struct {
	Width int
	URL   string
}

// View is the detail representation of a record.
type View struct {
	ID      string
	Album   string
	Artist  string
	Discogs string

	// Cover is the full display resolution cover, or the placeholder.
	Cover string

	// Variants is empty when the record has no cover.
	Variants []Variant

	Tracks []Track

	// Tags holds the non-empty year and genre, in that order.
	Tags []string
}

// TrackCount returns the number of tracks.
func (v View) TrackCount() int {
	return len(v.Tracks)
}

// Srcset renders the variants as an HTML srcset value. It is empty when
// there are no variants.
func (v View) Srcset() string {
	parts := make([]string, len(v.Variants))
	for i, variant := range v.Variants {
		parts[i] = fmt.Sprintf("%s %dw", variant.URL, variant.Width)
	}
	return strings.Join(parts, ", ")
}

// Projector builds detail views. It holds no state besides the resolver.
type Projector struct {
	resolver *cover.Resolver
}

// NewProjector creates a Projector that resolves covers with resolver.
func NewProjector(resolver *cover.Resolver) *Projector {
	return &Projector{resolver: resolver}
}

// Project builds the detail view for rec.
func (p *Projector) Project(rec model.Record) View {
	v := View{
		ID:      rec.ID,
		Album:   rec.Album,
		Artist:  rec.Artist,
		Discogs: rec.Discogs,
		Cover:   p.resolver.Resolve(rec.Cover, cover.Large),
		Tracks:  make([]Track, len(rec.Tracks)),
	}

	if rec.HasCover() {
		v.Variants = make([]Variant, len(VariantWidths))
		for i, w := range VariantWidths {
			v.Variants[i] = Variant{
				Width: w,
				URL:   p.resolver.Resolve(rec.Cover, cover.Options{Width: w, Height: w, Fit: cover.FitCover}),
			}
		}
	}

	for i, name := range rec.Tracks {
		v.Tracks[i] = Track{Index: i + 1, Name: name}
	}

	for _, tag := range []string{rec.Year, rec.Genre} {
		if tag = strings.TrimSpace(tag); tag != "" {
			v.Tags = append(v.Tags, tag)
		}
	}

	return v
}
