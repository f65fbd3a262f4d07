// Package export renders tabular report data as CSV, spreadsheet HTML,
// print-ready HTML, and xlsx workbooks.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrNoHeaders indicates export data without a header list; every writer
// derives column order from it.
var ErrNoHeaders = errors.New("export data must declare at least one header")

// Row maps header names to cell values. Column order comes from
// ExportData.Headers, never from the map.
type Row map[string]string

// ExportData is the shared tabular shape every writer consumes.
type ExportData struct {
	Filename string
	Headers  []string
	Rows     []Row
	Title    string
	Subtitle string
}

// cell returns the row's value for a header, empty when absent.
func (r Row) cell(header string) string {
	return r[header]
}

// WriteCSV renders the data as RFC 4180 CSV with a header line.
func WriteCSV(w io.Writer, data ExportData) error {
	if len(data.Headers) == 0 {
		return ErrNoHeaders
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row.cell(header)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
