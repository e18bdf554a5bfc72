package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/stylus-vinyl/internal/controller"
	"github.com/handiism/stylus-vinyl/internal/detail"
	"github.com/handiism/stylus-vinyl/internal/window"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ Stylus Vinyl"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("record catalog"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StateBrowse:
		b.WriteString(m.viewBrowse())
	case StateDetail:
		b.WriteString(m.viewDetail())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Loading catalog..."))
	b.WriteString("\n\n")

	if m.total > 0 {
		b.WriteString(m.progress.ViewAs(float64(m.fetched) / float64(m.total)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Sources: %d/%d", m.fetched, m.total)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())
	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderChips())
	b.WriteString("\n\n")

	if m.ctl.State() == window.StateEmpty {
		b.WriteString(boxStyle.Render("No records match your search.\n\n" + dimStyle.Render("esc: clear the search and genre filter")))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderGrid())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	if n := len(m.logs); n > 0 {
		b.WriteString(renderLog(m.logs[n-1]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderChips() string {
	genres := m.ctl.Genres()
	q := m.ctl.Query()

	chips := make([]string, 0, len(genres)+1)
	for i, label := range append([]string{"All"}, genres...) {
		active := i == 0 && len(q.Genres) == 0 || i > 0 && q.HasGenre(label)
		style := chipStyle
		if active {
			style = chipActiveStyle
		}
		if m.focus == focusGenres && i == m.chip {
			style = style.Underline(true)
		}
		chips = append(chips, style.Render(label))
	}
	return strings.Join(chips, " ")
}

func (m Model) renderGrid() string {
	cols, rows := m.columns(), m.rows()
	start := m.offset * cols
	end := min(start+rows*cols, len(m.cards))

	var lines []string
	for i := start; i < end; i += cols {
		row := make([]string, 0, cols)
		for j := i; j < min(i+cols, end); j++ {
			row = append(row, m.cards[j].render(m.focus == focusGrid && j == m.cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	total := len(m.ctl.View())
	status := fmt.Sprintf("Showing %d of %d", len(m.cards), total)
	if total > 0 && len(m.cards) > 0 {
		status = fmt.Sprintf("%d/%d · %s", m.cursor+1, total, status)
	}
	if m.ctl.More() {
		status += " · m: load more"
	}
	return infoStyle.Render(status)
}

func (m Model) viewDetail() string {
	v := m.selected

	var info strings.Builder
	info.WriteString(albumStyle.Render(titleOrUntitled(v.Album)))
	info.WriteString("\n")
	if v.Artist != "" {
		info.WriteString(subtitleStyle.Render(v.Artist))
		info.WriteString("\n")
	}
	if len(v.Tags) > 0 {
		tags := make([]string, len(v.Tags))
		for i, t := range v.Tags {
			tags[i] = tagStyle.Render(t)
		}
		info.WriteString("\n")
		info.WriteString(strings.Join(tags, ""))
		info.WriteString("\n")
	}
	info.WriteString("\n")
	info.WriteString(infoStyle.Render(fmt.Sprintf("%d tracks", v.TrackCount())))
	info.WriteString("\n")
	info.WriteString(m.detail.View())
	info.WriteString("\n\n")
	if v.Discogs != "" {
		info.WriteString(dimStyle.Render("Discogs: " + v.Discogs))
		info.WriteString("\n")
	}
	info.WriteString(dimStyle.Render("Cover: " + v.Cover))

	if m.preview == nil {
		return info.String()
	}

	art := m.previewArt
	if art == "" {
		art = m.spinner.View() + " loading cover..."
	}
	left := lipgloss.NewStyle().Width(previewWidth).MarginRight(2).Render(art)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, info.String())
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Could not load the catalog:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder
	for _, log := range m.logs {
		b.WriteString(renderLog(log))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLog(log LogEntry) string {
	var style lipgloss.Style
	prefix := "•"
	switch log.Level {
	case controller.LevelError:
		style = errorStyle
		prefix = "✗"
	case controller.LevelWarning:
		style = warningStyle
		prefix = "!"
	case controller.LevelSuccess:
		style = successStyle
		prefix = "✓"
	case controller.LevelInfo:
		style = infoStyle
		prefix = "›"
	default:
		style = dimStyle
	}
	return style.Render(prefix + " " + log.Message)
}

// renderTracks builds the scrollable track list of the detail view.
func renderTracks(v detail.View) string {
	if len(v.Tracks) == 0 {
		return dimStyle.Render("No track list.")
	}
	lines := make([]string, len(v.Tracks))
	for i, t := range v.Tracks {
		lines[i] = fmt.Sprintf("%3d. %s", t.Index, t.Name)
	}
	return strings.Join(lines, "\n")
}

func titleOrUntitled(album string) string {
	if strings.TrimSpace(album) == "" {
		return untitled
	}
	return album
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateLoading:
		return "esc: cancel • ctrl+c: quit"
	case StateError:
		return "r: retry • q: quit"
	case StateDetail:
		return "↑/↓: scroll tracks • esc: back • ctrl+c: quit"
	}

	switch m.focus {
	case focusSearch:
		return "type to search • enter: apply • esc: back to grid"
	case focusGenres:
		return "←/→: choose • enter: toggle • tab: back to grid • /: search"
	}
	return "arrows: move • enter: open • /: search • tab: genres • m: load more • esc: clear • ctrl+r: reload • q: quit"
}
