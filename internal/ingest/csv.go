// Package ingest reads uploaded CSV batches and turns them into classified
// inventory items through the sequential batch analyzer.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tradenest/tradenest/pkg/utils"
)

// ErrEmptyCSV indicates the upload had no header row or no data rows.
var ErrEmptyCSV = errors.New("csv must contain a header row and at least one data row")

// InventoryRow is one parsed row of an inventory upload. Missing optional
// columns carry their documented defaults; Malformed marks rows that could
// not be fully parsed and were defaulted instead of dropped.
type InventoryRow struct {
	Name         string
	SKU          string
	Availability int
	Warehouse    string
	Country      string
	Description  string
	Malformed    bool
}

// Defaults for optional columns absent from an upload.
const (
	DefaultWarehouse = "Main Warehouse"
	DefaultCountry   = "United States"
)

// ReadInventoryCSV parses an inventory upload. Header matching is
// case-insensitive; ragged or unparsable rows are defaulted rather than
// dropped, so the returned row count always equals the upload's data row
// count.
func ReadInventoryCSV(r io.Reader) ([]InventoryRow, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	rows := make([]InventoryRow, 0, len(records))
	for i, record := range records {
		fields := newFieldReader(header, record)

		row := InventoryRow{
			Name:        fields.first("name", "productname", "product"),
			SKU:         fields.first("sku"),
			Warehouse:   DefaultWarehouse,
			Country:     DefaultCountry,
			Description: fields.first("description"),
			Malformed:   len(record) != len(header),
		}

		if v := fields.first("warehouse"); v != "" {
			row.Warehouse = v
		}
		if v := fields.first("country"); v != "" {
			row.Country = v
		}

		if raw := fields.first("availability", "stock", "quantity"); raw != "" {
			n, convErr := strconv.Atoi(raw)
			if convErr != nil || n < 0 {
				row.Malformed = true
			} else {
				row.Availability = n
			}
		}

		if row.Name == "" {
			row.Name = fmt.Sprintf("Product %d", i+1)
			row.Malformed = true
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// fieldReader resolves named columns against one record.
type fieldReader struct {
	header map[string]int
	record []string
}

func newFieldReader(header map[string]int, record []string) fieldReader {
	return fieldReader{header: header, record: record}
}

// first returns the first non-empty value among the named columns,
// tried in argument order. Cell text is stripped of control characters
// before use.
func (f fieldReader) first(columns ...string) string {
	for _, col := range columns {
		idx, ok := f.header[col]
		if !ok || idx >= len(f.record) {
			continue
		}
		if value := strings.TrimSpace(utils.SanitizeString(f.record[idx])); value != "" {
			return value
		}
	}
	return ""
}

// readAll reads every record and returns the data rows plus a lowercase
// header index.
func readAll(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are defaulted, not rejected
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, ErrEmptyCSV
	}

	normalize := strings.NewReplacer(" ", "", "_", "", "-", "")
	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[normalize.Replace(strings.ToLower(strings.TrimSpace(col)))] = i
	}

	return records[1:], header, nil
}
