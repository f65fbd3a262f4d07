package ai

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradenest/tradenest/internal/trade"
	"github.com/tradenest/tradenest/pkg/utils"
	"go.uber.org/zap"
)

// DefaultDestinations is used when a caller does not name destination
// countries for a tax estimate.
var DefaultDestinations = []string{"United Kingdom", "Germany", "France", "Canada", "Australia"}

// ProductAnalysis is the per-row result of analyzing an uploaded product.
type ProductAnalysis struct {
	ProductName    string          `json:"productName"`
	Category       string          `json:"category"`
	HSCode         string          `json:"hsCode"`
	Confidence     int             `json:"confidence"`
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
	MarketDemand   string          `json:"marketDemand"`
	Seasonality    string          `json:"seasonality"`
	ComplianceRisk string          `json:"complianceRisk"`
	Description    string          `json:"description"`
	// AIClassified reports whether a remote completion contributed to the
	// analysis, as opposed to the deterministic fallback alone.
	AIClassified bool `json:"aiClassified"`
}

// Analyzer orchestrates classification, tax estimation and document
// generation: it attempts the remote gateway first and falls through to the
// deterministic trade engine on any failure. The combined operations never
// surface ErrRemoteUnavailable; degraded deterministic results are always
// available as next-best output.
type Analyzer struct {
	gateway    Gateway
	classifier *trade.Classifier
	estimator  *trade.Estimator
	documents  *trade.DocumentSynthesizer
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer over the given gateway and fallback engine.
func NewAnalyzer(gateway Gateway, classifier *trade.Classifier, estimator *trade.Estimator, documents *trade.DocumentSynthesizer, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		gateway:    gateway,
		classifier: classifier,
		estimator:  estimator,
		documents:  documents,
		logger:     logger,
	}
}

// ClassifyProduct resolves an HS code for the descriptor. Remote fields that
// are present override the deterministic result field-wise; anything the
// model omits keeps the fallback value, so the result is always complete.
func (a *Analyzer) ClassifyProduct(ctx context.Context, descriptor trade.ProductDescriptor) (trade.ClassificationResult, error) {
	if descriptor.Name == "" && descriptor.Category == "" {
		return trade.ClassificationResult{}, trade.ErrEmptyProductName
	}

	fallback := a.classifier.Classify(descriptor)

	content, err := a.gateway.Complete(ctx, buildHSCodePrompt(descriptor))
	if err != nil {
		a.logger.Info("Remote classification unavailable, using rules tables",
			zap.String("product", descriptor.Name), zap.Error(err))
		return fallback, nil
	}

	var remote remoteClassification
	if err := decodeRemote(content, &remote); err != nil {
		a.logger.Warn("Remote classification response rejected",
			zap.String("product", descriptor.Name), zap.Error(err))
		return fallback, nil
	}

	result := fallback
	if remote.HSCode != "" {
		if err := utils.ValidateHSCode(remote.HSCode); err == nil {
			result.HSCode = remote.HSCode
		} else {
			a.logger.Warn("Remote HS code rejected, keeping rules-table code",
				zap.String("product", descriptor.Name), zap.Error(err))
		}
	}
	if remote.Description != "" {
		result.Description = remote.Description
	}
	if remote.DutyRate != nil {
		result.DutyRate = decimal.NewFromFloat(*remote.DutyRate)
	}
	if remote.Confidence != nil {
		result.Confidence = *remote.Confidence
	}
	if len(remote.Restrictions) > 0 {
		result.Restrictions = remote.Restrictions
	}
	if len(remote.AlternativeCodes) > 0 {
		result.AlternativeCodes = remote.AlternativeCodes
	}

	a.logger.Info("Remote classification accepted",
		zap.String("product", descriptor.Name),
		zap.String("hs_code", result.HSCode))
	return result, nil
}

// EstimateTaxes computes one landed-cost calculation per destination, order
// preserved. A remote answer is accepted only when it covers every requested
// destination with complete figures; otherwise the deterministic estimator
// answers. Negative values abort with ErrInvalidInput before any call.
func (a *Analyzer) EstimateTaxes(ctx context.Context, productName, category, hsCode string, value decimal.Decimal, destinations []string) ([]trade.TaxCalculation, error) {
	if value.IsNegative() {
		return nil, trade.ErrNegativeValue
	}
	if len(destinations) == 0 {
		destinations = DefaultDestinations
	}

	content, err := a.gateway.Complete(ctx, buildTaxPrompt(productName, hsCode, value, destinations))
	if err == nil {
		if calcs, ok := a.acceptRemoteTaxes(content, hsCode, value, destinations); ok {
			return calcs, nil
		}
		a.logger.Warn("Remote tax response rejected, using rate tables",
			zap.String("hs_code", hsCode))
	} else {
		a.logger.Info("Remote tax estimation unavailable, using rate tables", zap.Error(err))
	}

	return a.estimator.EstimateTaxes(value, category, hsCode, destinations)
}

// acceptRemoteTaxes validates a remote tax response against the request.
func (a *Analyzer) acceptRemoteTaxes(content, hsCode string, value decimal.Decimal, destinations []string) ([]trade.TaxCalculation, bool) {
	var remote remoteTaxResponse
	if err := decodeRemote(content, &remote); err != nil {
		return nil, false
	}
	if len(remote.TaxCalculations) != len(destinations) {
		return nil, false
	}

	calcs := make([]trade.TaxCalculation, 0, len(destinations))
	for i, entry := range remote.TaxCalculations {
		if entry.Country != destinations[i] ||
			entry.DutyRate == nil || entry.VATRate == nil ||
			entry.DutyAmount == nil || entry.VATAmount == nil {
			return nil, false
		}

		totalTax := entry.DutyAmount.Add(*entry.VATAmount)
		calcs = append(calcs, trade.TaxCalculation{
			ProductValue: value,
			HSCode:       hsCode,
			Country:      entry.Country,
			VATRate:      *entry.VATRate,
			DutyRate:     *entry.DutyRate,
			VATAmount:    *entry.VATAmount,
			DutyAmount:   *entry.DutyAmount,
			TotalTax:     totalTax,
			TotalAmount:  value.Add(totalTax),
			Breakdown: trade.TaxBreakdown{
				BaseValue:      value,
				Duty:           *entry.DutyAmount,
				VAT:            *entry.VATAmount,
				AdditionalFees: decimal.Zero,
			},
			TradeAgreements: trade.TradeAgreementsFor(entry.Country),
		})
	}
	return calcs, true
}

// GenerateDocument produces a compliance document, preferring AI prose and
// degrading to the fixed template. Unknown document types abort.
func (a *Analyzer) GenerateDocument(ctx context.Context, docType trade.DocumentType, product trade.DocumentProduct, destination string, orderValue decimal.Decimal) (trade.ComplianceDocument, error) {
	if !docType.Valid() {
		return trade.ComplianceDocument{}, fmt.Errorf("%w: %q", trade.ErrUnknownDocumentType, docType)
	}
	if orderValue.IsNegative() {
		return trade.ComplianceDocument{}, trade.ErrNegativeValue
	}

	content, err := a.gateway.Complete(ctx, buildDocumentPrompt(docType, product, destination, orderValue))
	if err != nil || content == "" {
		a.logger.Info("Remote document generation unavailable, using template",
			zap.String("type", string(docType)), zap.Error(err))
		return a.documents.Generate(docType, product, destination, orderValue), nil
	}

	return trade.WrapRemoteContent(docType, content), nil
}

// AnalyzeProduct classifies one uploaded product row for inventory intake.
// Remote fields override deterministic ones field-wise; a dead gateway or a
// garbled reply yields the purely deterministic analysis.
func (a *Analyzer) AnalyzeProduct(ctx context.Context, productName, description string) (ProductAnalysis, error) {
	if productName == "" {
		return ProductAnalysis{}, trade.ErrEmptyProductName
	}

	fallback := a.fallbackAnalysis(productName, description)

	content, err := a.gateway.Complete(ctx, buildAnalysisPrompt(productName, description))
	if err != nil {
		return fallback, nil
	}

	var remote remoteAnalysis
	if err := decodeRemote(content, &remote); err != nil {
		return fallback, nil
	}

	analysis := fallback
	analysis.AIClassified = true
	if remote.Category != "" {
		analysis.Category = remote.Category
	}
	if utils.ValidateHSCode(remote.HSCode) == nil {
		analysis.HSCode = remote.HSCode
	}
	if remote.Confidence != nil {
		analysis.Confidence = *remote.Confidence
	} else {
		analysis.Confidence = 90
	}
	if remote.SuggestedPrice != nil {
		analysis.SuggestedPrice = *remote.SuggestedPrice
	}
	if validDemand(remote.MarketDemand) {
		analysis.MarketDemand = remote.MarketDemand
	}
	if remote.Seasonality != "" {
		analysis.Seasonality = remote.Seasonality
	}
	if validRisk(remote.ComplianceRisk) {
		analysis.ComplianceRisk = remote.ComplianceRisk
	}
	if remote.Description != "" {
		analysis.Description = remote.Description
	}
	return analysis, nil
}

// fallbackAnalysis is the deterministic product analysis.
func (a *Analyzer) fallbackAnalysis(productName, description string) ProductAnalysis {
	classification := a.classifier.Classify(trade.ProductDescriptor{
		Name:        productName,
		Description: description,
	})

	return ProductAnalysis{
		ProductName:    productName,
		Category:       classification.Category,
		HSCode:         classification.HSCode,
		Confidence:     trade.UnmatchedConfidence,
		SuggestedPrice: trade.EstimatePrice(productName),
		MarketDemand:   "medium",
		Seasonality:    "Year-round",
		ComplianceRisk: "low",
		Description:    fmt.Sprintf("Offline analysis for %s. Enhanced analysis available with API configuration.", productName),
	}
}

// TradeInsights answers a free-text trade query, degrading to canned
// guidance when the gateway is down.
func (a *Analyzer) TradeInsights(ctx context.Context, query string) string {
	content, err := a.gateway.Complete(ctx, buildInsightsPrompt(query))
	if err != nil || content == "" {
		return trade.FallbackInsights(query)
	}
	return content
}

func validDemand(demand string) bool {
	switch demand {
	case "high", "medium", "low":
		return true
	}
	return false
}

func validRisk(risk string) bool {
	switch risk {
	case "low", "medium", "high":
		return true
	}
	return false
}
