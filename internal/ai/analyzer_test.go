package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradenest/tradenest/internal/trade"
	"go.uber.org/zap"
)

// stubGateway scripts the remote gateway for tests.
type stubGateway struct {
	response string
	err      error
	calls    int
}

func (s *stubGateway) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func downGateway() *stubGateway {
	return &stubGateway{err: fmt.Errorf("%w: connection refused", ErrRemoteUnavailable)}
}

func newTestAnalyzer(gateway Gateway) *Analyzer {
	logger := zap.NewNop()
	return NewAnalyzer(gateway,
		trade.NewClassifier(logger),
		trade.NewEstimator(logger),
		trade.NewDocumentSynthesizer(logger),
		logger)
}

func TestClassifyProductFallsBackWhenGatewayDown(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	result, err := analyzer.ClassifyProduct(context.Background(),
		trade.ProductDescriptor{Name: "Wireless Headphones"})
	require.NoError(t, err, "gateway failure must not surface to the caller")

	assert.Equal(t, "8518.30.00", result.HSCode)
	assert.Equal(t, trade.MatchedConfidence, result.Confidence)
}

func TestClassifyProductFallsBackOnMalformedJSON(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{response: "I think it is probably electronics?"})

	result, err := analyzer.ClassifyProduct(context.Background(),
		trade.ProductDescriptor{Name: "Wireless Headphones"})
	require.NoError(t, err)
	assert.Equal(t, "8518.30.00", result.HSCode, "deterministic result on parse failure")
}

func TestClassifyProductMergesRemoteFields(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{
		response: `{"hsCode":"8518.21.00","confidence":88}`,
	})

	result, err := analyzer.ClassifyProduct(context.Background(),
		trade.ProductDescriptor{Name: "Wireless Headphones"})
	require.NoError(t, err)

	// Remote fields win; omitted fields keep deterministic values.
	assert.Equal(t, "8518.21.00", result.HSCode)
	assert.Equal(t, 88, result.Confidence)
	assert.True(t, result.DutyRate.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, trade.TariffScheduleLabel, result.TariffSchedule)
	assert.NotEmpty(t, result.Restrictions)
}

func TestClassifyProductRejectsMalformedRemoteHSCode(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{
		response: `{"hsCode":"85-18-21","confidence":88}`,
	})

	result, err := analyzer.ClassifyProduct(context.Background(),
		trade.ProductDescriptor{Name: "Wireless Headphones"})
	require.NoError(t, err)

	// A code outside NNNN.NN.NN form is dropped; other remote fields
	// still merge.
	assert.Equal(t, "8518.30.00", result.HSCode)
	assert.Equal(t, 88, result.Confidence)
}

func TestClassifyProductRejectsEmptyDescriptor(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	_, err := analyzer.ClassifyProduct(context.Background(), trade.ProductDescriptor{})
	assert.ErrorIs(t, err, trade.ErrInvalidInput)
}

func TestEstimateTaxesFallsBackWhenGatewayDown(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	calcs, err := analyzer.EstimateTaxes(context.Background(),
		"Headphones", "Electronics - Audio", "8518.30.00",
		decimal.NewFromInt(100), []string{"Germany"})
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	assert.True(t, calcs[0].TotalAmount.Equal(decimal.NewFromFloat(121.975)),
		"total %s", calcs[0].TotalAmount)
}

func TestEstimateTaxesRejectsIncompleteRemoteAnswer(t *testing.T) {
	// Remote covers only one of two destinations; the deterministic
	// estimator must answer instead.
	gateway := &stubGateway{response: `{"taxCalculations":[
		{"country":"Germany","dutyRate":2.5,"vatRate":19,"dutyAmount":2.5,"vatAmount":19.475}
	]}`}
	analyzer := newTestAnalyzer(gateway)

	calcs, err := analyzer.EstimateTaxes(context.Background(),
		"Headphones", "Electronics - Audio", "8518.30.00",
		decimal.NewFromInt(100), []string{"Germany", "France"})
	require.NoError(t, err)
	require.Len(t, calcs, 2)
	assert.Equal(t, "Germany", calcs[0].Country)
	assert.Equal(t, "France", calcs[1].Country)
}

func TestEstimateTaxesAcceptsCompleteRemoteAnswer(t *testing.T) {
	gateway := &stubGateway{response: `{"taxCalculations":[
		{"country":"Germany","dutyRate":3.1,"vatRate":19,"dutyAmount":3.1,"vatAmount":19.589}
	]}`}
	analyzer := newTestAnalyzer(gateway)

	calcs, err := analyzer.EstimateTaxes(context.Background(),
		"Headphones", "Electronics - Audio", "8518.30.00",
		decimal.NewFromInt(100), []string{"Germany"})
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	assert.True(t, calcs[0].DutyRate.Equal(decimal.NewFromFloat(3.1)))
	assert.True(t, calcs[0].TotalAmount.Equal(decimal.NewFromFloat(122.689)),
		"total %s", calcs[0].TotalAmount)
	assert.Equal(t, []string{"EU Single Market", "EU-Mercosur Agreement"}, calcs[0].TradeAgreements)
}

func TestEstimateTaxesNegativeValueAborts(t *testing.T) {
	gateway := downGateway()
	analyzer := newTestAnalyzer(gateway)

	_, err := analyzer.EstimateTaxes(context.Background(),
		"Headphones", "Electronics - Audio", "8518.30.00",
		decimal.NewFromInt(-5), []string{"Germany"})
	assert.ErrorIs(t, err, trade.ErrInvalidInput)
	assert.Zero(t, gateway.calls, "validation happens before any remote call")
}

func TestEstimateTaxesDefaultsDestinations(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	calcs, err := analyzer.EstimateTaxes(context.Background(),
		"Headphones", "Electronics - Audio", "8518.30.00",
		decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	require.Len(t, calcs, len(DefaultDestinations))
	for i, country := range DefaultDestinations {
		assert.Equal(t, country, calcs[i].Country)
	}
}

func TestGenerateDocumentFallsBackToTemplate(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	doc, err := analyzer.GenerateDocument(context.Background(),
		trade.DocPackingList,
		trade.DocumentProduct{Name: "Headphones", HSCode: "8518.30.00"},
		"Germany", decimal.NewFromInt(149))
	require.NoError(t, err, "malformed or missing remote response must not raise")

	assert.True(t, strings.HasPrefix(doc.Content, "COMMERCIAL INVOICE"),
		"fallback content matches the fixed template")
	assert.Equal(t, trade.DocPackingList, doc.Type)
	assert.Equal(t, "90 days from issue date", doc.ValidityPeriod)
}

func TestGenerateDocumentUsesRemoteProse(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{response: "PACKING LIST\n\nCarton 1 of 3..."})

	doc, err := analyzer.GenerateDocument(context.Background(),
		trade.DocPackingList,
		trade.DocumentProduct{Name: "Headphones"},
		"Germany", decimal.NewFromInt(149))
	require.NoError(t, err)
	assert.Equal(t, "PACKING LIST\n\nCarton 1 of 3...", doc.Content)
	assert.Equal(t, "90 days from issue date", doc.ValidityPeriod)
}

func TestGenerateDocumentRejectsUnknownType(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	_, err := analyzer.GenerateDocument(context.Background(),
		trade.DocumentType("napkin-sketch"), trade.DocumentProduct{}, "Germany", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, trade.ErrInvalidInput)
}

func TestAnalyzeProductOfflinePath(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	analysis, err := analyzer.AnalyzeProduct(context.Background(), "Wireless Headphones", "")
	require.NoError(t, err)

	assert.Equal(t, "Electronics - Audio", analysis.Category)
	assert.Equal(t, "8518.30.00", analysis.HSCode)
	assert.Equal(t, trade.UnmatchedConfidence, analysis.Confidence)
	assert.True(t, analysis.SuggestedPrice.Equal(decimal.NewFromInt(149)))
	assert.Equal(t, "medium", analysis.MarketDemand)
	assert.Equal(t, "Year-round", analysis.Seasonality)
	assert.Equal(t, "low", analysis.ComplianceRisk)
	assert.False(t, analysis.AIClassified)
}

func TestAnalyzeProductMergesRemoteAnswer(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{response: `{
		"category":"Electronics - Audio","hsCode":"8518.30.00","confidence":96,
		"suggestedPrice":179,"marketDemand":"high","seasonality":"Holiday peak",
		"complianceRisk":"medium","description":"Premium over-ear headphones"
	}`})

	analysis, err := analyzer.AnalyzeProduct(context.Background(), "Wireless Headphones", "")
	require.NoError(t, err)

	assert.Equal(t, 96, analysis.Confidence)
	assert.True(t, analysis.SuggestedPrice.Equal(decimal.NewFromInt(179)))
	assert.Equal(t, "high", analysis.MarketDemand)
	assert.Equal(t, "Holiday peak", analysis.Seasonality)
	assert.Equal(t, "medium", analysis.ComplianceRisk)
	assert.True(t, analysis.AIClassified)
}

func TestAnalyzeProductRejectsMalformedRemoteHSCode(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{response: `{
		"category":"Electronics - Audio","hsCode":"not-a-code","confidence":96
	}`})

	analysis, err := analyzer.AnalyzeProduct(context.Background(), "Wireless Headphones", "")
	require.NoError(t, err)
	assert.Equal(t, "8518.30.00", analysis.HSCode, "rules-table code kept")
	assert.Equal(t, 96, analysis.Confidence)
}

func TestAnalyzeProductIgnoresInvalidEnumValues(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{response: `{
		"category":"Electronics - Audio","hsCode":"8518.30.00",
		"marketDemand":"stratospheric","complianceRisk":"catastrophic"
	}`})

	analysis, err := analyzer.AnalyzeProduct(context.Background(), "Wireless Headphones", "")
	require.NoError(t, err)
	assert.Equal(t, "medium", analysis.MarketDemand)
	assert.Equal(t, "low", analysis.ComplianceRisk)
}

func TestTradeInsightsFallback(t *testing.T) {
	analyzer := newTestAnalyzer(downGateway())

	text := analyzer.TradeInsights(context.Background(), "duty rates for cameras")
	assert.Contains(t, text, "duty rates for cameras")
	assert.Contains(t, text, "Trade Insights")
}

func TestAnalyzerNeverSurfacesRemoteUnavailable(t *testing.T) {
	analyzer := newTestAnalyzer(&stubGateway{err: errors.New("TLS handshake timeout")})

	_, err := analyzer.ClassifyProduct(context.Background(), trade.ProductDescriptor{Name: "camera"})
	assert.NoError(t, err)

	_, err = analyzer.AnalyzeProduct(context.Background(), "camera", "")
	assert.NoError(t, err)
}
