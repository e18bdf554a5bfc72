package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/http"
	"github.com/handiism/stylus-vinyl/internal/normalize"
)

// Source type names.
const (
	TypeGViz = "gviz"
	TypeCSV  = "csv"
	TypeTags = "tags"
)

// ErrUnsupported is returned for unknown source types.
var ErrUnsupported = errors.New("unsupported source type")

// Source is an asynchronous provider of raw rows.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Rows fetches and parses the rows. It either returns every row or an
	// error; partial results are never returned.
	Rows(ctx context.Context) ([]normalize.Row, error)
}

// Spec describes a source to build.
type Spec struct {
	// Type is one of TypeGViz, TypeCSV or TypeTags.
	Type string

	// Location is a URL or path.
	Location string

	// Name overrides the default name (the location).
	Name string
}

// Fetcher retrieves text documents.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// New builds the source described by spec. client is used for http(s)
// locations.
func New(spec Spec, client Fetcher) (Source, error) {
	name := spec.Name
	if name == "" {
		name = spec.Location
	}
	if strings.TrimSpace(spec.Location) == "" {
		return nil, fmt.Errorf("source %q: empty location", name)
	}

	switch strings.ToLower(spec.Type) {
	case TypeGViz, "":
		return &GViz{name: name, location: spec.Location, fetcher: client}, nil
	case TypeCSV:
		return &CSV{name: name, location: spec.Location, fetcher: client}, nil
	case TypeTags:
		return &Tags{name: name, root: spec.Location}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, spec.Type)
	}
}

// NewAll builds every source in specs, stopping at the first invalid one.
func NewAll(specs []Spec, client Fetcher) ([]Source, error) {
	sources := make([]Source, 0, len(specs))
	for _, spec := range specs {
		src, err := New(spec, client)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// fetchText reads location over HTTP or from disk.
func fetchText(ctx context.Context, fetcher Fetcher, location string) (string, error) {
	if isRemote(location) {
		if fetcher == nil {
			fetcher = http.NewClient(http.DefaultTimeout)
		}
		return fetcher.GetString(ctx, location)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
