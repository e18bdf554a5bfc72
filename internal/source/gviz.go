package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/normalize"
	"github.com/handiism/stylus-vinyl/internal/source/dto"
)

// GViz reads a Google Sheets visualization export.
//
// Example usage:
//
//	src := &GViz{...} // usually built with New
//	rows, err := src.Rows(ctx)
//	if err != nil {
//	    return fmt.Errorf("failed to load sheet: %w", err)
//	}
type GViz struct {
	name     string
	location string
	fetcher  Fetcher
}

// Name returns the source name.
func (g *GViz) Name() string {
	return g.name
}

// Rows fetches the export and parses it.
func (g *GViz) Rows(ctx context.Context) ([]normalize.Row, error) {
	text, err := fetchText(ctx, g.fetcher, g.location)
	if err != nil {
		return nil, err
	}
	return ParseGViz(text)
}

// ParseGViz parses the text of a gviz export.
//
// This function performs the following steps:
//  1. Strips the JSONP wrapper around the payload
//  2. Deserializes the payload, keeping numbers as json.Number
//  3. Converts the table into rows keyed by column label
//
// Returns an error if the payload cannot be found or is malformed, or if
// the response reports a query error.
func ParseGViz(text string) ([]normalize.Row, error) {
	payload, err := extractPayload(text)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve sheet data: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var resp dto.Response
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse sheet JSON: %w", err)
	}

	return resp.ToRows()
}

// extractPayload extracts the JSON object from a gviz JSONP response.
//
// The export looks like this:
//
//	/*O_o*/
//	google.visualization.Query.setResponse({...});
//
// Everything before the first brace and the closing ");" are removed.
func extractPayload(text string) (string, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", fmt.Errorf("could not find sheet data in response")
	}

	payload := strings.TrimRight(text[start:], " \t\r\n")
	payload = strings.TrimSuffix(payload, ";")
	payload = strings.TrimSuffix(payload, ")")
	return payload, nil
}
