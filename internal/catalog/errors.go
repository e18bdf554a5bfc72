package catalog

import "fmt"

// NoRow marks an IngestionError that is not tied to a particular row.
const NoRow = -1

// IngestionError is returned when the data source fails or delivers content
// that cannot be normalized. The load that raised it committed nothing.
type IngestionError struct {
	// Source names the data source, if known.
	Source string

	// Row is the zero-based index of the offending row, or NoRow.
	Row int

	// Err is the underlying cause.
	Err error
}

// NewIngestionError wraps err as a source-level ingestion failure.
func NewIngestionError(source string, err error) *IngestionError {
	return &IngestionError{Source: source, Row: NoRow, Err: err}
}

func (e *IngestionError) Error() string {
	msg := "ingestion failed"
	if e.Source != "" {
		msg += fmt.Sprintf(": source %s", e.Source)
	}
	if e.Row != NoRow {
		msg += fmt.Sprintf(": row %d", e.Row)
	}
	return msg + ": " + e.Err.Error()
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
