// Package logistics parses warehouse and shipment tracking uploads.
package logistics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyCSV indicates the upload had no header row or no data rows.
var ErrEmptyCSV = errors.New("logistics csv must contain a header row and at least one data row")

// Record is one parsed row of a logistics upload. String fields keep the
// upload's raw values; numeric fields default to zero when unparsable.
type Record struct {
	WarehouseID          string  `json:"warehouse_id"`
	WarehouseName        string  `json:"warehouse_name"`
	Address              string  `json:"address"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	SKUID                string  `json:"sku_id"`
	HSCode               string  `json:"hs_code"`
	SKUDescription       string  `json:"sku_description"`
	Quantity             int     `json:"quantity"`
	ShipmentID           string  `json:"shipment_id"`
	ShipmentStatus       string  `json:"shipment_status"`
	Origin               string  `json:"origin"`
	OriginLatitude       float64 `json:"origin_latitude"`
	OriginLongitude      float64 `json:"origin_longitude"`
	Destination          string  `json:"destination"`
	DestinationLatitude  float64 `json:"destination_latitude"`
	DestinationLongitude float64 `json:"destination_longitude"`
	Carrier              string  `json:"carrier"`
	ETA                  string  `json:"eta"`
	LastUpdated          string  `json:"last_updated"`
}

// ReadCSV parses a logistics upload. Header matching is case-insensitive
// and tolerant of spacing; unparsable numeric cells default to zero rather
// than failing the row.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read logistics csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyCSV
	}

	header := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		header[normalizeColumn(col)] = i
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(col string) string {
			idx, ok := header[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		records = append(records, Record{
			WarehouseID:          get("warehouse_id"),
			WarehouseName:        get("warehouse_name"),
			Address:              get("address"),
			Latitude:             parseFloat(get("latitude")),
			Longitude:            parseFloat(get("longitude")),
			SKUID:                get("sku_id"),
			HSCode:               get("hs_code"),
			SKUDescription:       get("sku_description"),
			Quantity:             parseInt(get("quantity")),
			ShipmentID:           get("shipment_id"),
			ShipmentStatus:       get("shipment_status"),
			Origin:               get("origin"),
			OriginLatitude:       parseFloat(get("origin_latitude")),
			OriginLongitude:      parseFloat(get("origin_longitude")),
			Destination:          get("destination"),
			DestinationLatitude:  parseFloat(get("destination_latitude")),
			DestinationLongitude: parseFloat(get("destination_longitude")),
			Carrier:              get("carrier"),
			ETA:                  get("eta"),
			LastUpdated:          get("last_updated"),
		})
	}

	return records, nil
}

func normalizeColumn(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, " ", "_")
	return strings.ReplaceAll(col, "-", "_")
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
