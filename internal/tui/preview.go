package tui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/stylus-vinyl/internal/detail"
	"github.com/handiism/stylus-vinyl/internal/http"
	ioutils "github.com/handiism/stylus-vinyl/internal/io"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// previewWidth and previewHeight are the preview size in cells. Each
	// cell shows two pixels stacked vertically.
	previewWidth  = 24
	previewHeight = 12
)

// previewer downloads covers and renders them with half-block characters.
// Rendered previews are kept in an LRU cache keyed by URL.
type previewer struct {
	client      *http.Client
	images      *ioutils.ImageService
	cache       *lru.Cache[string, string]
	placeholder string
}

func newPreviewer(client *http.Client, placeholder string, cacheSize int) *previewer {
	cache, err := lru.New[string, string](max(cacheSize, 1))
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}
	return &previewer{
		client:      client,
		images:      ioutils.NewImageService(),
		cache:       cache,
		placeholder: placeholder,
	}
}

// load fetches the preview of url. If the cover cannot be loaded the
// placeholder image is tried instead.
func (p *previewer) load(ctx context.Context, url string) tea.Cmd {
	return func() tea.Msg {
		art, err := p.render(ctx, url)
		if err != nil && url != p.placeholder {
			art, err = p.render(ctx, p.placeholder)
		}
		return PreviewMsg{URL: url, Art: art, Err: err}
	}
}

func (p *previewer) render(ctx context.Context, url string) (string, error) {
	if art, ok := p.cache.Get(url); ok {
		return art, nil
	}

	data, err := p.client.DownloadBytes(ctx, url)
	if err != nil {
		return "", err
	}
	img, err := p.images.Thumbnail(ctx, data, previewWidth, previewHeight*2)
	if err != nil {
		return "", fmt.Errorf("failed to decode cover: %w", err)
	}

	art := halfBlocks(img)
	p.cache.Add(url, art)
	return art, nil
}

// previewSource picks the smallest cover variant, or the placeholder when
// the record has no cover.
func previewSource(v detail.View) string {
	if len(v.Variants) > 0 {
		return v.Variants[0].URL
	}
	return v.Cover
}

// halfBlocks draws img with "▀": the foreground colours the upper pixel and
// the background the lower one.
func halfBlocks(img image.Image) string {
	b := img.Bounds()
	lines := make([]string, 0, (b.Dy()+1)/2)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img.At(x, y)))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(img.At(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

// placeholderArt is shown when neither the cover nor the placeholder image
// could be loaded.
func placeholderArt() string {
	return lipgloss.NewStyle().
		Width(previewWidth-2).
		Height(previewHeight-2).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#495057")).
		Foreground(lipgloss.Color("#6C757D")).
		Render("no cover")
}
