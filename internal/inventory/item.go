// Package inventory holds the session inventory collection: items created
// in bulk from CSV uploads, classified once at creation, and kept in memory
// with snapshot persistence standing in for browser local storage.
package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the stock status derived from availability.
type Status string

const (
	StatusInStock    Status = "in-stock"
	StatusLowStock   Status = "low-stock"
	StatusOutOfStock Status = "out-of-stock"
)

// lowStockThreshold is the availability below which an item is low-stock.
const lowStockThreshold = 20

// StatusFor derives the stock status from an availability count:
// 0 is out-of-stock, under the threshold is low-stock, otherwise in-stock.
func StatusFor(availability int) Status {
	switch {
	case availability <= 0:
		return StatusOutOfStock
	case availability < lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Item is one inventory record. SKU is unique within a session; Status is
// always derived from Availability, never stored independently.
type Item struct {
	ID             string           `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Availability   int              `json:"availability"`
	HSCode         string           `json:"hsCode"`
	Warehouse      string           `json:"warehouse"`
	Country        string           `json:"country"`
	LastSynced     time.Time        `json:"lastSynced"`
	Status         Status           `json:"status"`
	AIClassified   bool             `json:"aiClassified"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	MarketDemand   string           `json:"marketDemand,omitempty"`
	Seasonality    string           `json:"seasonality,omitempty"`
	ComplianceRisk string           `json:"complianceRisk,omitempty"`
	Description    string           `json:"description,omitempty"`
}

// NewItemID returns a fresh unique item identifier.
func NewItemID() string {
	return "item-" + uuid.NewString()
}
