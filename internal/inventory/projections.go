package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DashboardData summarizes the store for the dashboard view.
type DashboardData struct {
	TotalSKUs      int `json:"totalSKUs"`
	AIClassified   int `json:"aiClassified"`
	LowStock       int `json:"lowStock"`
	ComplianceRate int `json:"complianceRate"`
}

// BillingRow is a derived billing line for one inventory item.
type BillingRow struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	Product    string          `json:"product"`
	Country    string          `json:"country"`
	OrderValue decimal.Decimal `json:"orderValue"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	Status     string          `json:"status"`
	OrderRef   string          `json:"orderRef"`
	HSCode     string          `json:"hsCode"`
}

// ComplianceRow is a derived document-tracking line for one item.
type ComplianceRow struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	ProductName    string `json:"productName"`
	Destination    string `json:"destination"`
	OrderRef       string `json:"orderRef"`
	Status         string `json:"status"`
	CreatedDate    string `json:"createdDate"`
	ComplianceRisk string `json:"complianceRisk"`
	AIGenerated    bool   `json:"aiGenerated"`
}

var fallbackUnitPrice = decimal.NewFromInt(50)

// Dashboard derives headline metrics from the snapshot. ComplianceRate is
// the share of AI-classified items, in whole percent.
func (s Snapshot) Dashboard() DashboardData {
	data := DashboardData{
		TotalSKUs:    s.TotalItems,
		AIClassified: s.AIClassifiedCount,
		LowStock:     s.LowStockCount,
	}
	if s.TotalItems > 0 {
		rate := decimal.NewFromInt(int64(s.AIClassifiedCount)).
			Div(decimal.NewFromInt(int64(s.TotalItems))).
			Mul(decimal.NewFromInt(100))
		data.ComplianceRate = int(rate.Round(0).IntPart())
	}
	return data
}

// BillingRows projects each item into a billing line. Order value is the
// unit price times up to ten units of stock; the tax rate is a coarse
// category-based estimate used only for the billing table.
func (s Snapshot) BillingRows() []BillingRow {
	rows := make([]BillingRow, 0, len(s.Items))
	for _, item := range s.Items {
		price := fallbackUnitPrice
		if item.Price != nil {
			price = *item.Price
		}
		units := item.Availability
		if units > 10 {
			units = 10
		}

		status := "pending"
		if item.Status == StatusInStock {
			status = "paid"
		}

		rows = append(rows, BillingRow{
			ID:         item.ID,
			Date:       item.LastSynced.Format("2006-01-02"),
			Product:    item.Name,
			Country:    item.Country,
			OrderValue: price.Mul(decimal.NewFromInt(int64(units))),
			TaxRate:    billingTaxRate(item.Category),
			Status:     status,
			OrderRef:   "ORD-" + item.SKU,
			HSCode:     item.HSCode,
		})
	}
	return rows
}

// ComplianceRows projects each item into a document-tracking line.
func (s Snapshot) ComplianceRows() []ComplianceRow {
	rows := make([]ComplianceRow, 0, len(s.Items))
	for _, item := range s.Items {
		status := "pending"
		if item.AIClassified {
			status = "completed"
		}
		risk := item.ComplianceRisk
		if risk == "" {
			risk = "low"
		}

		rows = append(rows, ComplianceRow{
			ID:             item.ID,
			Type:           "Commercial Invoice",
			ProductName:    item.Name,
			Destination:    item.Country,
			OrderRef:       "ORD-" + item.SKU,
			Status:         status,
			CreatedDate:    item.LastSynced.Format("2006-01-02"),
			ComplianceRisk: risk,
			AIGenerated:    item.AIClassified,
		})
	}
	return rows
}

func billingTaxRate(category string) decimal.Decimal {
	switch {
	case strings.Contains(category, "Electronics"):
		return decimal.NewFromFloat(2.5)
	case strings.Contains(category, "Textiles"):
		return decimal.NewFromFloat(16.5)
	default:
		return decimal.NewFromFloat(5.0)
	}
}
