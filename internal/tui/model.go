// Package tui provides a Bubble Tea terminal user interface for browsing the
// catalog.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/stylus-vinyl/internal/config"
	"github.com/handiism/stylus-vinyl/internal/controller"
	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/detail"
	"github.com/handiism/stylus-vinyl/internal/http"
	"github.com/handiism/stylus-vinyl/internal/logging"
	"github.com/handiism/stylus-vinyl/internal/source"
	"github.com/sirupsen/logrus"
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateBrowse
	StateDetail
	StateError
)

type focus int

const (
	focusGrid focus = iota
	focusSearch
	focusGenres
)

// proximityRows is how close, in grid rows, the cursor must come to the
// last rendered card before more cards are requested.
const proximityRows = 2

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   controller.ProgressLevel
}

// Options configures the TUI.
type Options struct {
	Settings *config.Settings
	Sources  []source.Source

	// Logger must not write to the terminal. Defaults to a discarding logger.
	Logger logrus.FieldLogger

	// Client fetches cover previews. Defaults to a client with the
	// configured timeout.
	Client *http.Client

	// Verbose shows verbose progress lines.
	Verbose bool
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	focus    focus
	settings *config.Settings
	ctl      *controller.Controller[card]
	log      logrus.FieldLogger
	verbose  bool

	search   textinput.Model
	spinner  spinner.Model
	progress progress.Model
	detail   viewport.Model

	cards  []card
	cursor int
	offset int
	chip   int

	searchSeq int

	selected   detail.View
	preview    *previewer
	previewURL string
	previewArt string

	logs       []LogEntry
	progressCh chan controller.ProgressEvent
	err        error

	ctx    context.Context
	cancel context.CancelFunc

	fetched int32
	total   int32

	width  int
	height int
}

type keyMap struct {
	Quit, Search, Genres, Open, Back, More, Reload, Retry key.Binding
	Up, Down, Left, Right, Home, End, Toggle            key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Genres: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "genres")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	More:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
	Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Left:   key.NewBinding(key.WithKeys("left", "h")),
	Right:  key.NewBinding(key.WithKeys("right", "l")),
	Home:   key.NewBinding(key.WithKeys("home", "g")),
	End:    key.NewBinding(key.WithKeys("end", "G")),
	Toggle: key.NewBinding(key.WithKeys("enter", " ")),
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	client := opts.Client
	if client == nil {
		client = http.NewClient(settings.Timeout())
	}

	progressCh := make(chan controller.ProgressEvent, 64)
	resolver := cover.NewResolver(settings.ToCoverConfig())
	ctl := controller.New(settings, controller.Deps[card]{
		Sources:     opts.Sources,
		Materialize: newCardFunc(resolver),
		Logger:      log,
		OnProgress: func(e controller.ProgressEvent) {
			select {
			case progressCh <- e:
			default:
			}
		},
	})

	ti := textinput.New()
	ti.Placeholder = "album, artist, genre or track"
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:      StateLoading,
		settings:   settings,
		ctl:        ctl,
		log:        log,
		verbose:    opts.Verbose,
		search:     ti,
		spinner:    sp,
		progress:   prog,
		detail:     viewport.New(60, 12),
		progressCh: progressCh,
		ctx:        ctx,
		cancel:     cancel,
	}
	if settings.ShowPreview {
		m.preview = newPreviewer(client, resolver.Placeholder(), settings.PreviewCacheSize)
	}
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick, m.tickProgress(), m.waitForProgress())
}

// Message types
type (
	// ProgressMsg carries a controller progress event.
	ProgressMsg struct {
		Event controller.ProgressEvent
	}

	// FetchDoneMsg is sent when every source has been fetched.
	FetchDoneMsg struct {
		Batches []controller.Batch
		Err     error
	}

	// SearchMsg is sent once the search box has been idle for the debounce
	// delay. Seq identifies the keystroke that scheduled it.
	SearchMsg struct {
		Seq  int
		Text string
	}

	// PreviewMsg carries a rendered cover preview.
	PreviewMsg struct {
		URL string
		Art string
		Err error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		m.search.Width = min(max(msg.Width-12, 20), 60)
		m.detail.Width = max(msg.Width-previewWidth-6, 20)
		m.detail.Height = max(msg.Height-14, 3)
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateLoading || (m.state == StateDetail && m.previewPending()) {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ProgressMsg:
		m.appendLog(msg.Event)
		cmds = append(cmds, m.waitForProgress())

	case TickMsg:
		if m.state == StateLoading {
			m.fetched, m.total = m.ctl.GetProgress()
			cmds = append(cmds, m.tickProgress())
		}

	case FetchDoneMsg:
		return m.handleFetched(msg)

	case SearchMsg:
		if msg.Seq == m.searchSeq && m.state != StateLoading {
			m.dispatch(controller.SetText{Text: msg.Text})
		}

	case PreviewMsg:
		if msg.URL == m.previewURL {
			if msg.Err != nil {
				m.log.WithError(msg.Err).WithField("url", msg.URL).Warn("Cover preview failed")
				m.previewArt = placeholderArt()
			} else {
				m.previewArt = msg.Art
			}
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	switch m.state {
	case StateLoading:
		if msg.String() == "esc" {
			m.cancel()
		}
		return m, nil

	case StateError:
		switch {
		case key.Matches(msg, keys.Retry):
			return m.startLoad()
		case msg.String() == "q", msg.String() == "esc":
			return m, tea.Quit
		}
		return m, nil

	case StateDetail:
		if key.Matches(msg, keys.Back) {
			m.dispatch(controller.Back{})
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusGenres:
		return m.handleGenreKey(msg)
	default:
		return m.handleGridKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab", "down":
		m.search.Blur()
		m.focus = focusGrid
		return m, nil
	case "enter":
		m.search.Blur()
		m.focus = focusGrid
		m.searchSeq++
		m.dispatch(controller.SetText{Text: m.search.Value()})
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == prev {
		return m, cmd
	}

	m.searchSeq++
	seq, text := m.searchSeq, m.search.Value()
	debounce := tea.Tick(m.settings.SearchDebounce(), func(time.Time) tea.Msg {
		return SearchMsg{Seq: seq, Text: text}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m Model) handleGenreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	genres := m.ctl.Genres()

	switch {
	case key.Matches(msg, keys.Left):
		m.chip = max(m.chip-1, 0)
	case key.Matches(msg, keys.Right):
		m.chip = min(m.chip+1, len(genres))
	case key.Matches(msg, keys.Toggle):
		genre := ""
		if m.chip > 0 && m.chip <= len(genres) {
			genre = genres[m.chip-1]
		}
		m.dispatch(controller.ToggleGenre{Genre: genre})
	case key.Matches(msg, keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case msg.String() == "esc", key.Matches(msg, keys.Genres), key.Matches(msg, keys.Down):
		m.focus = focusGrid
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()

	switch {
	case msg.String() == "q":
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, keys.Genres):
		m.focus = focusGenres
		return m, nil
	case key.Matches(msg, keys.Reload):
		return m.startLoad()
	case key.Matches(msg, keys.More):
		m.dispatch(controller.Grow{})
		return m, nil
	case key.Matches(msg, keys.Open):
		return m.open()
	case msg.String() == "esc":
		if !m.ctl.Query().IsDefault() {
			m.search.SetValue("")
			m.searchSeq++
			m.chip = 0
			m.dispatch(controller.ClearQuery{})
		}
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		} else if m.cursor < cols {
			m.focus = focusGenres
		}
	case key.Matches(msg, keys.Down):
		m.cursor = min(m.cursor+cols, len(m.cards)-1)
	case key.Matches(msg, keys.Left):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, keys.Right):
		m.cursor = min(m.cursor+1, len(m.cards)-1)
	case key.Matches(msg, keys.Home):
		m.cursor = 0
	case key.Matches(msg, keys.End):
		m.cursor = len(m.cards) - 1
	default:
		return m, nil
	}

	m.cursor = max(m.cursor, 0)
	m.ensureVisible()
	if m.nearEnd() {
		m.dispatch(controller.Approach{})
	}
	return m, nil
}

// open shows the detail view of the card under the cursor.
func (m Model) open() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.cards) {
		return m, nil
	}
	m.dispatch(controller.Select{ID: m.cards[m.cursor].ID})
	if m.state != StateDetail || m.preview == nil {
		return m, nil
	}

	m.previewURL = previewSource(m.selected)
	m.previewArt = ""
	return m, tea.Batch(m.preview.load(m.ctx, m.previewURL), m.spinner.Tick)
}

// dispatch sends ev to the controller and applies the resulting update.
func (m *Model) dispatch(ev controller.Event) {
	u, err := m.ctl.Dispatch(ev)
	if err != nil {
		m.log.WithError(err).WithField("event", fmt.Sprintf("%T", ev)).Debug("Event rejected")
	}
	m.apply(u)
}

func (m *Model) apply(u controller.Update[card]) {
	switch u.Kind {
	case controller.UpdateReset:
		m.cards = append([]card(nil), u.Items...)
		m.cursor = 0
		m.offset = 0
	case controller.UpdateAppend:
		m.cards = append(m.cards, u.Items...)
	case controller.UpdateDetail:
		m.selected = *u.Detail
		m.state = StateDetail
		m.detail.SetContent(renderTracks(m.selected))
		m.detail.GotoTop()
	case controller.UpdateBack:
		m.state = StateBrowse
		m.previewURL = ""
		m.previewArt = ""
	}
}

// startLoad begins a fetch. It does nothing while one is in flight.
func (m Model) startLoad() (tea.Model, tea.Cmd) {
	if m.state == StateLoading || m.ctl.Loading() {
		return m, nil
	}
	m.cancel()

	m.state = StateLoading
	m.err = nil
	m.fetched, m.total = 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m, tea.Batch(m.fetch(), m.spinner.Tick, m.tickProgress())
}

func (m Model) handleFetched(msg FetchDoneMsg) (tea.Model, tea.Cmd) {
	err := msg.Err
	if err == nil {
		var u controller.Update[card]
		u, err = m.ctl.Ingest(msg.Batches)
		if err == nil {
			m.apply(u)
			m.state = StateBrowse
			return m, nil
		}
	}

	if errors.Is(err, controller.ErrLoadInFlight) {
		return m, nil
	}
	if m.ctx.Err() != nil {
		err = fmt.Errorf("cancelled by user")
	}
	m.log.WithError(err).Error("Catalog load failed")

	// A failed reload keeps the catalog that is already on screen.
	if m.ctl.Stats().Rows > 0 {
		m.state = StateBrowse
		m.appendLog(controller.ProgressEvent{Message: err.Error(), Level: controller.LevelError})
		return m, nil
	}
	m.state = StateError
	m.err = err
	return m, nil
}

func (m *Model) appendLog(e controller.ProgressEvent) {
	if e.Level == controller.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// columns returns the number of cards per grid row.
func (m Model) columns() int {
	width := m.width
	if width == 0 {
		width = 80
	}
	return max(1, width/(cardWidth+3))
}

// rows returns the number of grid rows that fit on screen.
func (m Model) rows() int {
	if m.height == 0 {
		return 3
	}
	return max(1, (m.height-12)/cardHeight)
}

// ensureVisible scrolls the grid so the cursor row is on screen.
func (m *Model) ensureVisible() {
	cols, rows := m.columns(), m.rows()
	row := m.cursor / cols
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
}

// nearEnd reports whether the cursor is within proximityRows of the last
// rendered card.
func (m Model) nearEnd() bool {
	return len(m.cards)-1-m.cursor < m.columns()*proximityRows
}

func (m Model) previewPending() bool {
	return m.preview != nil && m.previewURL != "" && m.previewArt == ""
}

// fetch runs the controller fetch off the UI goroutine.
func (m Model) fetch() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		batches, err := ctl.Fetch(ctx)
		return FetchDoneMsg{Batches: batches, Err: err}
	}
}

// waitForProgress forwards the next progress event.
func (m Model) waitForProgress() tea.Cmd {
	ch := m.progressCh
	return func() tea.Msg {
		return ProgressMsg{Event: <-ch}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Run starts the TUI application.
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
