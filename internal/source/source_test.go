package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/stylus-vinyl/internal/cover"
	vhttp "github.com/handiism/stylus-vinyl/internal/http"
)

const mockGViz = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","sig":"1","table":{"cols":[{"id":"A","label":"Artist","type":"string"},{"id":"B","label":"Album","type":"string"},{"id":"C","label":"","type":"number"},{"id":"D","label":"Tracks","type":"string"}],"rows":[{"c":[{"v":"Miles Davis"},{"v":"Kind of Blue"},{"v":1959.0,"f":"1959"},{"v":"So What; Blue in Green"}]},null,{"c":[{"v":"Nina Simone"},null,{"v":null},{"v":"Sinnerman"}]},{"c":null}]}});`

func TestParseGViz(t *testing.T) {
	rows, err := ParseGViz(mockGViz)
	if err != nil {
		t.Fatalf("ParseGViz failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0]["Artist"] != "Miles Davis" {
		t.Errorf("rows[0][Artist] = %v, want Miles Davis", rows[0]["Artist"])
	}
	if rows[0]["C"] != json.Number("1959.0") {
		t.Errorf("unlabeled column should use its ID and keep the literal number, got %#v", rows[0]["C"])
	}
	if rows[1]["Album"] != "" {
		t.Errorf("null cell = %#v, want empty string", rows[1]["Album"])
	}
}

func TestParseGViz_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no payload", "<html>Sign in</html>"},
		{"malformed JSON", `setResponse({"table":{"cols":[}});`},
		{"query error", `setResponse({"status":"error","errors":[{"reason":"access_denied","message":"Access denied"}]});`},
		{"no table", `setResponse({"status":"ok"});`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGViz(tt.text); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"jsonp wrapper", "/*O_o*/\nfn({\"a\":1});\n", `{"a":1}`},
		{"bare JSON", `{"a":1}`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractPayload(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extractPayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	text := "\ufeffArtist,Album,Year,Tracks\n" +
		"Miles Davis,Kind of Blue,1959,\"So What; Blue in Green\"\n" +
		"Short Row\n"

	rows, err := ParseCSV(text)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	want := []map[string]any{
		{"Artist": "Miles Davis", "Album": "Kind of Blue", "Year": "1959", "Tracks": "So What; Blue in Green"},
		{"Artist": "Short Row"},
	}
	if len(rows) != len(want) {
		t.Fatalf("row count = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(map[string]any(rows[i]), want[i]) {
			t.Errorf("rows[%d] = %v, want %v", i, rows[i], want[i])
		}
	}

	if _, err := ParseCSV(""); err == nil {
		t.Error("expected error for empty export")
	}
}

func TestGViz_RowsOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mockGViz))
	}))
	defer srv.Close()

	src, err := New(Spec{Type: TypeGViz, Location: srv.URL}, vhttp.NewClient(vhttp.DefaultTimeout))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("row count = %d, want 2", len(rows))
	}
	if src.Name() != srv.URL {
		t.Errorf("Name() = %q, want location", src.Name())
	}
}

func TestGViz_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, _ := New(Spec{Location: srv.URL}, vhttp.NewClient(vhttp.DefaultTimeout))
	if _, err := src.Rows(context.Background()); err == nil {
		t.Error("expected error for HTTP 500")
	}
}

func TestCSV_RowsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	if err := os.WriteFile(path, []byte("Artist,Album\nA,B\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := New(Spec{Type: TypeCSV, Location: path, Name: "local"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["Album"] != "B" {
		t.Errorf("rows = %v", rows)
	}
	if src.Name() != "local" {
		t.Errorf("Name() = %q, want local", src.Name())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(Spec{Type: "xml", Location: "x"}, nil); !errors.Is(err, ErrUnsupported) {
		t.Errorf("New() error = %v, want ErrUnsupported", err)
	}
	if _, err := New(Spec{Type: TypeCSV}, nil); err == nil {
		t.Error("expected error for empty location")
	}
}

func TestNewAll(t *testing.T) {
	sources, err := NewAll([]Spec{
		{Type: TypeCSV, Location: "a.csv"},
		{Type: TypeTags, Location: "/music", Name: "library"},
	}, nil)
	if err != nil {
		t.Fatalf("NewAll() error = %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("len(sources) = %d, want 2", len(sources))
	}
	if sources[0].Name() != "a.csv" || sources[1].Name() != "library" {
		t.Errorf("names = %q, %q", sources[0].Name(), sources[1].Name())
	}

	if _, err := NewAll([]Spec{{Type: TypeCSV, Location: "a.csv"}, {Type: "xml", Location: "b"}}, nil); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewAll() error = %v, want ErrUnsupported", err)
	}
}

func TestTags_Rows(t *testing.T) {
	root := t.TempDir()
	albumDir := filepath.Join(root, "evans")
	if err := os.MkdirAll(albumDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeMP3(t, filepath.Join(albumDir, "b.mp3"), "Bill Evans", "Waltz for Debby", "Waltz for Debby", "2")
	writeMP3(t, filepath.Join(albumDir, "a.mp3"), "Bill Evans", "Waltz for Debby", "My Foolish Heart", "1/6")
	if err := os.WriteFile(filepath.Join(albumDir, "cover.jpg"), []byte("jpg"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(albumDir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := New(Spec{Type: TypeTags, Location: root}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}
	row := rows[0]
	if row["Artist"] != "Bill Evans" || row["Album"] != "Waltz for Debby" {
		t.Errorf("row = %v", row)
	}
	if row["Year"] != "1962" || row["Genre"] != "Jazz" {
		t.Errorf("year/genre = %v/%v, want 1962/Jazz", row["Year"], row["Genre"])
	}
	if row["Cover"] != "evans/cover.jpg" {
		t.Errorf("Cover = %v, want evans/cover.jpg", row["Cover"])
	}
	wantTracks := []string{"My Foolish Heart", "Waltz for Debby"}
	if !reflect.DeepEqual(row["Tracks"], wantTracks) {
		t.Errorf("Tracks = %v, want %v", row["Tracks"], wantTracks)
	}
}

func TestTags_CoversPerAlbum(t *testing.T) {
	root := t.TempDir()
	for _, album := range []struct{ dir, artist, name string }{
		{"evans", "Bill Evans", "Waltz for Debby"},
		{filepath.Join("davis", "kob"), "Miles Davis", "Kind of Blue"},
	} {
		dir := filepath.Join(root, album.dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		writeMP3(t, filepath.Join(dir, "01.mp3"), album.artist, album.name, "Opening", "1")
		if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("jpg"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := New(Spec{Type: TypeTags, Location: root}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	got := make(map[any]any, len(rows))
	for _, row := range rows {
		got[row["Album"]] = row["Cover"]
	}
	want := map[any]any{
		"Waltz for Debby": "evans/cover.jpg",
		"Kind of Blue":    "davis/kob/cover.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("covers = %v, want %v", got, want)
	}

	resolver := cover.NewResolver(cover.Config{AssetBase: "https://assets.example/library"})
	a := resolver.Resolve(want["Waltz for Debby"].(string), cover.Thumb)
	b := resolver.Resolve(want["Kind of Blue"].(string), cover.Thumb)
	if a == b {
		t.Errorf("albums resolve to the same cover URL %q", a)
	}
	if !strings.Contains(a, "assets.example%2Flibrary%2Fevans%2Fcover.jpg") {
		t.Errorf("Resolve() = %q, want the asset base joined with the album path", a)
	}
}

func TestTrackNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{"3/12", 3},
		{" 7 ", 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := trackNumber(tt.input); got != tt.want {
				t.Errorf("trackNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}

	if trackNumber("") <= trackNumber("99") {
		t.Error("missing track numbers should sort last")
	}
}

func writeMP3(t *testing.T, path, artist, album, title, track string) {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	tag.SetArtist(artist)
	tag.SetAlbum(album)
	tag.SetTitle(title)
	tag.SetYear("1962")
	tag.SetGenre("Jazz")
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, track)

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := tag.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	// A few bytes standing in for the audio frames.
	if _, err := f.Write([]byte{0xFF, 0xFB, 0x90, 0x00}); err != nil {
		t.Fatal(err)
	}
}
