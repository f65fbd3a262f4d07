package ai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tradenest/tradenest/internal/trade"
)

func buildHSCodePrompt(descriptor trade.ProductDescriptor) string {
	return fmt.Sprintf(`As a trade classification expert, provide the most accurate HS code for this product:

Product: %s
Category: %s
Description: %s
Attributes: %s

Provide response in JSON format with: hsCode, description, dutyRate, restrictions, confidence, alternativeCodes`,
		descriptor.Name,
		descriptor.Category,
		descriptor.Description,
		strings.Join(descriptor.Attributes, ", "),
	)
}

func buildTaxPrompt(productName, hsCode string, value decimal.Decimal, destinations []string) string {
	return fmt.Sprintf(`Calculate accurate import taxes for this product:

Product: %s
HS Code: %s
Value: $%s
Destinations: %s

Provide current duty rates, VAT rates, and total calculations for each country in JSON format with a taxCalculations array.`,
		productName,
		hsCode,
		value.String(),
		strings.Join(destinations, ", "),
	)
}

func buildDocumentPrompt(docType trade.DocumentType, product trade.DocumentProduct, destination string, orderValue decimal.Decimal) string {
	name := product.Name
	if name == "" {
		name = "Product"
	}
	hsCode := product.HSCode
	if hsCode == "" {
		hsCode = "TBD"
	}

	return fmt.Sprintf(`Generate a %s for international trade:

Product: %s
Destination: %s
Value: $%s
HS Code: %s

Provide a complete, professional document with all required fields.`,
		docType, name, destination, orderValue.String(), hsCode)
}

func buildAnalysisPrompt(productName, description string) string {
	return fmt.Sprintf(`As a trade expert, analyze this product for international trade:

Product: %s
Description: %s

Provide a JSON response with:
- category: Product category for trade classification
- hsCode: Harmonized System code
- confidence: Classification confidence (0-100)
- suggestedPrice: Estimated market price in USD
- marketDemand: high/medium/low
- seasonality: Seasonal demand pattern
- complianceRisk: low/medium/high
- description: Brief product analysis

Focus on accuracy for international trade and customs classification.`,
		productName, description)
}

func buildInsightsPrompt(query string) string {
	return fmt.Sprintf(`As a trade expert, provide detailed insights for this query: %q

Include specific, actionable advice about:
- Trade regulations
- Market opportunities
- Compliance requirements
- Cost optimization strategies
- Risk mitigation

Provide a comprehensive, professional response.`, query)
}
