package detail

import (
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/model"
)

func newProjector() *Projector {
	return NewProjector(cover.NewResolver(cover.DefaultConfig()))
}

func TestProjector_Project(t *testing.T) {
	rec := model.Record{
		ID:     "id-1",
		Artist: "Bill Evans",
		Album:  "Waltz for Debby",
		Year:   "1962",
		Genre:  "Jazz",
		Cover:  "//example.com/debby.jpg",
		Tracks: []string{"My Foolish Heart", "Waltz for Debby"},
	}

	v := newProjector().Project(rec)

	if !strings.Contains(v.Cover, "w=900") || !strings.Contains(v.Cover, "fit=contain") {
		t.Errorf("Cover = %q, want large contain rendition", v.Cover)
	}

	if len(v.Variants) != 3 {
		t.Fatalf("Variants = %d, want 3", len(v.Variants))
	}
	for i, w := range []int{390, 750, 900} {
		if v.Variants[i].Width != w {
			t.Errorf("Variants[%d].Width = %d, want %d", i, v.Variants[i].Width, w)
		}
	}
	if !strings.HasSuffix(v.Srcset(), " 900w") || strings.Count(v.Srcset(), ", ") != 2 {
		t.Errorf("Srcset() = %q", v.Srcset())
	}

	wantTracks := []Track{{1, "My Foolish Heart"}, {2, "Waltz for Debby"}}
	if !reflect.DeepEqual(v.Tracks, wantTracks) {
		t.Errorf("Tracks = %+v, want %+v", v.Tracks, wantTracks)
	}
	if v.TrackCount() != 2 {
		t.Errorf("TrackCount() = %d, want 2", v.TrackCount())
	}

	if !reflect.DeepEqual(v.Tags, []string{"1962", "Jazz"}) {
		t.Errorf("Tags = %q", v.Tags)
	}
}

func TestProjector_NoCover(t *testing.T) {
	v := newProjector().Project(model.Record{Album: "Untitled"})

	if v.Cover != cover.DefaultPlaceholder {
		t.Errorf("Cover = %q, want placeholder", v.Cover)
	}
	if len(v.Variants) != 0 || v.Srcset() != "" {
		t.Errorf("Variants = %v, want none", v.Variants)
	}
	if v.Tracks == nil || len(v.Tracks) != 0 {
		t.Errorf("Tracks = %v, want empty list", v.Tracks)
	}
}

func TestProjector_TagsOmitEmpty(t *testing.T) {
	tests := []struct {
		year, genre string
		want        []string
	}{
		{"", "Rock", []string{"Rock"}},
		{"2004", "", []string{"2004"}},
		{"", " ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.year+"/"+tt.genre, func(t *testing.T) {
			v := newProjector().Project(model.Record{Album: "A", Year: tt.year, Genre: tt.genre})
			if !reflect.DeepEqual(v.Tags, tt.want) {
				t.Errorf("Tags = %q, want %q", v.Tags, tt.want)
			}
		})
	}
}

func TestProjector_Pure(t *testing.T) {
	rec := model.Record{Album: "A", Tracks: []string{"x"}}
	p := newProjector()

	first := p.Project(rec)
	second := p.Project(rec)
	if !reflect.DeepEqual(first, second) {
		t.Error("Project() should be deterministic")
	}
	if rec.Tracks[0] != "x" {
		t.Error("Project() mutated its input")
	}
}
