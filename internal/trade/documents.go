package trade

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// documentRequirements is constant across all generated documents.
var documentRequirements = []string{
	"Original signature required",
	"Company letterhead recommended",
	"Accurate product description mandatory",
	"Correct HS code classification essential",
}

// documentNotes is constant across all generated documents.
var documentNotes = []string{
	"Ensure all information is accurate for customs clearance",
	"Keep copies for your records",
	"Contact customs broker if assistance needed",
}

// fallbackValidityPeriod applies to every template-filled document.
const fallbackValidityPeriod = "90 days from issue date"

// DocumentProduct carries the product fields interpolated into a document.
type DocumentProduct struct {
	Name   string
	HSCode string
}

// DocumentSynthesizer assembles compliance document payloads from a fixed
// template. The template body is invoice-shaped regardless of the requested
// document type; the type is recorded on the result but does not vary the
// fallback content.
type DocumentSynthesizer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewDocumentSynthesizer creates a new template-based document synthesizer.
func NewDocumentSynthesizer(logger *zap.Logger) *DocumentSynthesizer {
	return &DocumentSynthesizer{logger: logger, now: time.Now}
}

// Generate fills the fixed document template with product, destination and
// order value. It never fails: unknown inputs produce placeholder fields.
func (ds *DocumentSynthesizer) Generate(docType DocumentType, product DocumentProduct, destination string, orderValue decimal.Decimal) ComplianceDocument {
	name := product.Name
	if name == "" {
		name = "Product Name"
	}
	hsCode := product.HSCode
	if hsCode == "" {
		hsCode = "TBD"
	}

	content := fmt.Sprintf(`COMMERCIAL INVOICE

Invoice No: INV-%s-001
Date: %s

Exporter:
Your Company Name
123 Business Street
City, State, Country

Importer:
Customer Name
Customer Address
%s

Product Details:
%s
Quantity: 1
Unit Price: $%s
Total Value: $%s

HS Code: %s
Country of Origin: United States

This invoice is generated for customs clearance purposes.`,
		ds.now().Format("2006"),
		ds.now().Format("1/2/2006"),
		destination,
		name,
		orderValue.String(),
		orderValue.String(),
		hsCode,
	)

	ds.logger.Debug("Generated fallback compliance document",
		zap.String("type", string(docType)),
		zap.String("destination", destination))

	return ComplianceDocument{
		Type:            docType,
		Content:         content,
		Requirements:    append([]string(nil), documentRequirements...),
		ValidityPeriod:  fallbackValidityPeriod,
		AdditionalNotes: append([]string(nil), documentNotes...),
	}
}

// WrapRemoteContent packages AI-generated prose with the constant
// requirements and validity metadata shared by all documents.
func WrapRemoteContent(docType DocumentType, content string) ComplianceDocument {
	return ComplianceDocument{
		Type:            docType,
		Content:         content,
		Requirements:    append([]string(nil), documentRequirements...),
		ValidityPeriod:  fallbackValidityPeriod,
		AdditionalNotes: append([]string(nil), documentNotes...),
	}
}

// FallbackInsights returns the deterministic trade guidance used when the
// remote gateway cannot answer a free-text query.
func FallbackInsights(query string) string {
	return fmt.Sprintf(`**Trade Insights for: %q**

I understand you're looking for trade information. Here are some general trade considerations:

1. **Classification**: Proper HS code classification is crucial for accurate duty calculations
2. **Documentation**: Ensure all required trade documents are complete and accurate
3. **Compliance**: Check destination country requirements for your specific product category
4. **Optimization**: Consider consolidating shipments to reduce per-unit costs

**Next Steps:**
- Verify product classification with customs authorities
- Review current trade agreements for potential duty reductions
- Ensure all compliance requirements are met
- Consider working with a licensed customs broker

Would you like me to help you with a specific trade calculation or document generation?`, query)
}
