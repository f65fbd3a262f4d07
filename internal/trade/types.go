// Package trade implements the deterministic classification, tax estimation
// and compliance document engine. It is the fallback path used whenever the
// remote AI gateway is unavailable or returns unusable data, and is built
// entirely on static rules tables so identical inputs always produce
// identical outputs.
package trade

import "github.com/shopspring/decimal"

// ProductDescriptor is the semantic input to a classification request.
// It is constructed per request and never mutated.
type ProductDescriptor struct {
	Name            string   `json:"productName"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	Attributes      []string `json:"attributes,omitempty"`
	DetectedObjects []string `json:"detectedObjects,omitempty"`
}

// ClassificationResult is the outcome of HS code inference.
// HSCode is always non-empty; products no rule matches resolve to the
// sentinel code with a lower-trust confidence.
type ClassificationResult struct {
	HSCode           string          `json:"hsCode"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	DutyRate         decimal.Decimal `json:"dutyRate"`
	Confidence       int             `json:"confidence"`
	Restrictions     []string        `json:"restrictions"`
	AlternativeCodes []string        `json:"alternativeCodes"`
	TariffSchedule   string          `json:"tariffSchedule"`
}

// TaxBreakdown itemizes the components of a landed cost.
type TaxBreakdown struct {
	BaseValue      decimal.Decimal `json:"baseValue"`
	Duty           decimal.Decimal `json:"duty"`
	VAT            decimal.Decimal `json:"vat"`
	AdditionalFees decimal.Decimal `json:"additionalFees"`
}

// TaxCalculation is the landed cost estimate for one product and one
// destination country. VATAmount is computed on the duty-inclusive value.
type TaxCalculation struct {
	ProductValue    decimal.Decimal `json:"productValue"`
	HSCode          string          `json:"hsCode"`
	Country         string          `json:"country"`
	VATRate         decimal.Decimal `json:"vatRate"`
	DutyRate        decimal.Decimal `json:"dutyRate"`
	VATAmount       decimal.Decimal `json:"vatAmount"`
	DutyAmount      decimal.Decimal `json:"dutyAmount"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Breakdown       TaxBreakdown    `json:"breakdown"`
	EffectiveDate   string          `json:"effectiveDate"`
	TradeAgreements []string        `json:"tradeAgreements"`
}

// DocumentType enumerates the supported compliance document types.
type DocumentType string

const (
	DocCommercialInvoice   DocumentType = "commercial-invoice"
	DocCertificateOfOrigin DocumentType = "certificate-of-origin"
	DocPackingList         DocumentType = "packing-list"
	DocBillOfLading        DocumentType = "bill-of-lading"
	DocImportExportDecl    DocumentType = "import-export-declaration"
	DocLetterOfUndertaking DocumentType = "letter-of-undertaking"
)

// DocumentTypes lists every supported type in display order.
var DocumentTypes = []DocumentType{
	DocCommercialInvoice,
	DocCertificateOfOrigin,
	DocPackingList,
	DocBillOfLading,
	DocImportExportDecl,
	DocLetterOfUndertaking,
}

// Valid reports whether dt is one of the supported document types.
func (dt DocumentType) Valid() bool {
	for _, t := range DocumentTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// ComplianceDocument is a generated trade document payload. Content is
// either AI-generated prose or a deterministic template fill.
type ComplianceDocument struct {
	Type            DocumentType `json:"type"`
	Content         string       `json:"content"`
	Requirements    []string     `json:"requirements"`
	ValidityPeriod  string       `json:"validityPeriod"`
	AdditionalNotes []string     `json:"additionalNotes"`
}
