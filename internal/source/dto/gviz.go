// Package dto holds the wire types of the Google Visualization (gviz)
// query response used by spreadsheet exports.
package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/normalize"
)

// ErrNoTable is returned when a response carries no table.
var ErrNoTable = errors.New("gviz response has no table")

// Response is the object passed to google.visualization.Query.setResponse.
type Response struct {
	Version string  `json:"version"`
	Status  string  `json:"status"`
	Errors  []Error `json:"errors"`
	Table   *Table  `json:"table"`
}

// Error describes a failed query.
type Error struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message"`
}

func (e Error) String() string {
	msg := e.Reason
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.DetailedMessage != "" {
		msg += " (" + e.DetailedMessage + ")"
	}
	return msg
}

// Table is the tabular payload.
type Table struct {
	Cols []Column `json:"cols"`
	Rows []*Row   `json:"rows"`
}

// Column describes one table column.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Row holds the cells of one table row. Rows and cells may be null.
type Row struct {
	C []*Cell `json:"c"`
}

// Cell is one value. V is the raw value, F its formatted form.
type Cell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

// Headers returns the column names, preferring labels over IDs.
func (t *Table) Headers() []string {
	headers := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		headers[i] = c.Label
		if strings.TrimSpace(headers[i]) == "" {
			headers[i] = c.ID
		}
	}
	return headers
}

// ToRows converts a response into raw rows.
//
// Null rows and rows without cells are skipped. Null cells, and cells with
// a null value, become "". Cells past the last column are ignored.
func (r *Response) ToRows() ([]normalize.Row, error) {
	if r.Status == "error" {
		msgs := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			msgs[i] = e.String()
		}
		return nil, fmt.Errorf("gviz query failed: %s", strings.Join(msgs, "; "))
	}
	if r.Table == nil {
		return nil, ErrNoTable
	}

	headers := r.Table.Headers()
	rows := make([]normalize.Row, 0, len(r.Table.Rows))
	for _, tr := range r.Table.Rows {
		if tr == nil || tr.C == nil {
			continue
		}
		row := make(normalize.Row, len(headers))
		for i, cell := range tr.C {
			if i >= len(headers) {
				break
			}
			if cell == nil || cell.V == nil {
				row[headers[i]] = ""
				continue
			}
			row[headers[i]] = cell.V
		}
		rows = append(rows, row)
	}
	return rows, nil
}
