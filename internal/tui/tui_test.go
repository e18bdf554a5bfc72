package tui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/stylus-vinyl/internal/config"
	"github.com/handiism/stylus-vinyl/internal/cover"
	vhttp "github.com/handiism/stylus-vinyl/internal/http"
	"github.com/handiism/stylus-vinyl/internal/model"
	"github.com/handiism/stylus-vinyl/internal/normalize"
	"github.com/handiism/stylus-vinyl/internal/source"
)

type stubSource struct {
	rows []normalize.Row
	err  error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Rows(ctx context.Context) ([]normalize.Row, error) {
	return s.rows, s.err
}

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.ShowPreview = false
	s.FetchMaxRetries = 1
	s.FetchRetryCooldown = 0
	return s
}

func sampleRows() []normalize.Row {
	return []normalize.Row{
		{"Artist": "Miles Davis", "Album": "Kind of Blue", "Year": "1959", "Genre": "Jazz", "Tracks": "So What; Blue in Green"},
		{"Artist": "Nina Simone", "Album": "Pastel Blues", "Genre": "Soul"},
		{"Artist": "Bill Evans", "Album": "", "Genre": "Jazz"},
	}
}

func manyRows(n int) []normalize.Row {
	rows := make([]normalize.Row, n)
	for i := range rows {
		rows[i] = normalize.Row{"Artist": "Artist", "Album": strings.Repeat("x", i+1)}
	}
	return rows
}

func loadedModel(t *testing.T, settings *config.Settings, src source.Source) Model {
	t.Helper()

	m := NewModel(Options{Settings: settings, Sources: []source.Source{src}})
	batches, err := m.ctl.Fetch(context.Background())
	next, _ := m.Update(FetchDoneMsg{Batches: batches, Err: err})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_LoadIntoBrowse(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{rows: sampleRows()})

	if m.state != StateBrowse {
		t.Fatalf("state = %v, want browse", m.state)
	}
	if len(m.cards) != 3 {
		t.Errorf("cards = %d, want 3", len(m.cards))
	}
	if view := m.View(); !strings.Contains(view, "Showing 3 of 3") {
		t.Errorf("View() missing status line:\n%s", view)
	}
}

func TestModel_LoadErrorAndRetry(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{err: errors.New("HTTP 500")})

	if m.state != StateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if view := m.View(); !strings.Contains(view, "HTTP 500") {
		t.Errorf("View() should show the cause:\n%s", view)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if next.(Model).state != StateLoading {
		t.Errorf("state after retry = %v, want loading", next.(Model).state)
	}
	if cmd == nil {
		t.Error("retry should schedule a fetch")
	}
}

func TestModel_ReloadCancelsPreviousContext(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{rows: sampleRows()})
	oldCtx := m.ctx

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if m.state != StateLoading {
		t.Fatalf("state after reload = %v, want loading", m.state)
	}
	if cmd == nil {
		t.Error("reload should schedule a fetch")
	}
	if oldCtx.Err() == nil {
		t.Error("reload should cancel the previous context")
	}
	if m.ctx.Err() != nil {
		t.Error("new context should be live")
	}

	loadingCtx := m.ctx
	next, cmd = m.startLoad()
	m = next.(Model)
	if cmd != nil {
		t.Error("a second load while loading should be ignored")
	}
	if m.ctx != loadingCtx || loadingCtx.Err() != nil {
		t.Error("a second load while loading should keep the running context")
	}
}

func TestModel_SearchDebounce(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{rows: sampleRows()})

	m = press(t, m, "/", "b")
	if m.focus != focusSearch || m.search.Value() != "b" {
		t.Fatalf("focus = %v, value = %q", m.focus, m.search.Value())
	}

	// A stale tick from an earlier keystroke is ignored.
	next, _ := m.Update(SearchMsg{Seq: m.searchSeq - 1, Text: "nina"})
	m = next.(Model)
	if len(m.cards) != 3 {
		t.Errorf("stale search applied, cards = %d", len(m.cards))
	}

	next, _ = m.Update(SearchMsg{Seq: m.searchSeq, Text: "blue"})
	m = next.(Model)
	if len(m.cards) != 2 {
		t.Errorf("cards after search = %d, want 2", len(m.cards))
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("query change should scroll to top, cursor %d offset %d", m.cursor, m.offset)
	}

	m = press(t, m, "esc", "esc")
	if m.focus != focusGrid || len(m.cards) != 3 {
		t.Errorf("esc should clear the query, focus %v cards %d", m.focus, len(m.cards))
	}
}

func TestModel_EmptyState(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{rows: sampleRows()})

	next, _ := m.Update(SearchMsg{Seq: m.searchSeq, Text: "no such record"})
	m = next.(Model)
	if view := m.View(); !strings.Contains(view, "No records match your search.") {
		t.Errorf("View() missing empty state:\n%s", view)
	}
}

func TestModel_OpenDetailAndBack(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{rows: sampleRows()})
	next, _ := m.Update(SearchMsg{Seq: m.searchSeq, Text: "kind of blue"})
	m = next.(Model)

	m = press(t, m, "enter")
	if m.state != StateDetail {
		t.Fatalf("state = %v, want detail", m.state)
	}
	view := m.View()
	for _, want := range []string{"Kind of Blue", "2 tracks", "So What", "1959"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	m = press(t, m, "esc")
	if m.state != StateBrowse {
		t.Errorf("state after esc = %v, want browse", m.state)
	}
}

func TestModel_GrowByProximityAndExplicitly(t *testing.T) {
	settings := testSettings()
	settings.PageSize = 4
	m := loadedModel(t, settings, stubSource{rows: manyRows(10)})

	if len(m.cards) != 4 {
		t.Fatalf("cards = %d, want 4", len(m.cards))
	}

	m = press(t, m, "right")
	if len(m.cards) != 8 {
		t.Errorf("cards after moving near the end = %d, want 8", len(m.cards))
	}

	m = press(t, m, "right")
	if len(m.cards) != 8 {
		t.Errorf("cards away from the end = %d, want 8", len(m.cards))
	}

	m = press(t, m, "m")
	if len(m.cards) != 10 || m.ctl.More() {
		t.Errorf("cards after load more = %d, more %v", len(m.cards), m.ctl.More())
	}
}

func TestModel_GenreToggle(t *testing.T) {
	m := loadedModel(t, testSettings(), stubSource{rows: sampleRows()})

	m = press(t, m, "tab", "right", "enter")
	if m.focus != focusGenres {
		t.Fatalf("focus = %v, want genres", m.focus)
	}
	if !m.ctl.Query().HasGenre("Jazz") || len(m.cards) != 2 {
		t.Errorf("query = %+v, cards = %d, want Jazz with 2 cards", m.ctl.Query(), len(m.cards))
	}

	m = press(t, m, "enter")
	if len(m.cards) != 3 {
		t.Errorf("toggling the selected genre again should show all, cards = %d", len(m.cards))
	}
}

func TestNewCardFunc(t *testing.T) {
	materialize := newCardFunc(cover.NewResolver(cover.DefaultConfig()))

	c := materialize(model.Record{ID: "1", Artist: "Miles Davis", Album: "Kind of Blue", Year: "1959", Genre: " Jazz "})
	if c.Title != "Kind of Blue" || c.Meta != "1959 · Jazz" {
		t.Errorf("card = %+v", c)
	}
	if c.Thumb != cover.DefaultPlaceholder {
		t.Errorf("Thumb = %q, want placeholder", c.Thumb)
	}

	c = materialize(model.Record{Artist: "Bill Evans"})
	if c.Title != untitled {
		t.Errorf("Title = %q, want %q", c.Title, untitled)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want short", got)
	}
	if got := truncate("이박사의 뽕짝 메들리", 8); got != "이박사…" {
		t.Errorf("truncate() = %q, want 이박사…", got)
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHalfBlocks(t *testing.T) {
	art := halfBlocks(image.NewRGBA(image.Rect(0, 0, 4, 3)))

	lines := strings.Split(art, "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	for i, line := range lines {
		if n := strings.Count(line, "▀"); n != 4 {
			t.Errorf("line %d has %d blocks, want 4", i, n)
		}
	}
}

func TestPreviewer_Load(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/placeholder.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(testPNG(t, 8, 8))
	}))
	defer srv.Close()

	p := newPreviewer(vhttp.NewClient(vhttp.DefaultTimeout), srv.URL+"/placeholder.png", 4)

	msg := p.load(context.Background(), srv.URL+"/missing.jpg")().(PreviewMsg)
	if msg.Err != nil {
		t.Fatalf("missing cover should fall back to the placeholder, got %v", msg.Err)
	}
	if msg.URL != srv.URL+"/missing.jpg" || !strings.Contains(msg.Art, "▀") {
		t.Errorf("PreviewMsg = %+v", msg)
	}

	before := requests.Load()
	if msg := p.load(context.Background(), srv.URL+"/placeholder.png")().(PreviewMsg); msg.Err != nil {
		t.Fatalf("placeholder load error = %v", msg.Err)
	}
	if requests.Load() != before {
		t.Error("placeholder preview should come from the cache")
	}
}

func TestPreviewer_LoadFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := newPreviewer(vhttp.NewClient(vhttp.DefaultTimeout), srv.URL+"/placeholder.png", 4)
	if msg := p.load(context.Background(), srv.URL+"/missing.jpg")().(PreviewMsg); msg.Err == nil {
		t.Error("expected error when the placeholder is unavailable too")
	}
}
