package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradenest/tradenest/internal/ai"
	"github.com/tradenest/tradenest/internal/inventory"
	"github.com/tradenest/tradenest/internal/trade"
)

type stubAnalyzer struct {
	analyses map[string]ai.ProductAnalysis
	err      error
	calls    []string
	onCall   func()
}

func (s *stubAnalyzer) AnalyzeProduct(_ context.Context, productName, _ string) (ai.ProductAnalysis, error) {
	s.calls = append(s.calls, productName)
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return ai.ProductAnalysis{}, s.err
	}
	return s.analyses[productName], nil
}

func newTestBatch(analyzer ProductAnalyzer) *BatchAnalyzer {
	b := NewBatchAnalyzer(analyzer, zap.NewNop())
	b.pace = 0
	b.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestBatchAnalyzerProcess(t *testing.T) {
	price := decimal.NewFromInt(149)
	stub := &stubAnalyzer{analyses: map[string]ai.ProductAnalysis{
		"Wireless Headphones": {
			ProductName:    "Wireless Headphones",
			Category:       "Electronics - Audio",
			HSCode:         "8518.30.00",
			SuggestedPrice: price,
			MarketDemand:   "high",
			Seasonality:    "Year-round",
			ComplianceRisk: "low",
			Description:    "Over-ear Bluetooth headphones",
			AIClassified:   true,
		},
	}}

	batch := newTestBatch(stub)
	rows := []InventoryRow{
		{Name: "Wireless Headphones", SKU: "WH-001", Availability: 45, Warehouse: "Berlin Hub", Country: "Germany"},
		{Name: "Mystery Gadget", Availability: 0, Warehouse: DefaultWarehouse, Country: DefaultCountry},
	}

	items, err := batch.Process(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"Wireless Headphones", "Mystery Gadget"}, stub.calls)

	first := items[0]
	assert.Equal(t, "WH-001", first.SKU)
	assert.Equal(t, "Electronics - Audio", first.Category)
	assert.Equal(t, "8518.30.00", first.HSCode)
	assert.Equal(t, inventory.StatusInStock, first.Status)
	assert.True(t, first.AIClassified)
	require.NotNil(t, first.Price)
	assert.True(t, first.Price.Equal(price))
	assert.Equal(t, "Over-ear Bluetooth headphones", first.Description)
	assert.Equal(t, batch.now().UTC(), first.LastSynced)

	second := items[1]
	assert.Equal(t, "SKU-1717243200000-1", second.SKU)
	assert.Equal(t, inventory.StatusOutOfStock, second.Status)
	assert.False(t, second.AIClassified)
	assert.Nil(t, second.Price)
}

func TestBatchAnalyzerProcessAnalyzerError(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("boom")}
	batch := newTestBatch(stub)

	items, err := batch.Process(context.Background(), []InventoryRow{
		{Name: "Unknown Widget", Availability: 5},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, trade.DefaultCategory, item.Category)
	assert.Equal(t, trade.SentinelHSCode, item.HSCode)
	assert.False(t, item.AIClassified)
	assert.Equal(t, inventory.StatusLowStock, item.Status)
}

func TestBatchAnalyzerProcessCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stub := &stubAnalyzer{onCall: cancel}
	batch := newTestBatch(stub)

	rows := []InventoryRow{
		{Name: "First", Availability: 1},
		{Name: "Second", Availability: 2},
		{Name: "Third", Availability: 3},
	}

	items, err := batch.Process(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, items, 1)
	assert.Equal(t, "First", items[0].Name)
	assert.Equal(t, []string{"First"}, stub.calls)
}

func TestBatchAnalyzerProcessEmpty(t *testing.T) {
	batch := newTestBatch(&stubAnalyzer{})

	items, err := batch.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
