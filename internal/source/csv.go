package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/normalize"
)

// CSV reads a spreadsheet CSV export whose first line holds the headers.
type CSV struct {
	name     string
	location string
	fetcher  Fetcher
}

// Name returns the source name.
func (c *CSV) Name() string {
	return c.name
}

// Rows fetches the export and parses it.
func (c *CSV) Rows(ctx context.Context) ([]normalize.Row, error) {
	text, err := fetchText(ctx, c.fetcher, c.location)
	if err != nil {
		return nil, err
	}
	return ParseCSV(text)
}

// ParseCSV parses CSV text. Records shorter than the header line leave the
// missing columns out, longer ones have their extra fields ignored.
func ParseCSV(text string) ([]normalize.Row, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV export")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	var rows []normalize.Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		row := make(normalize.Row, len(headers))
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			row[strings.TrimSpace(headers[i])] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}
