package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tradenest/tradenest/internal/ai"
	"github.com/tradenest/tradenest/internal/inventory"
	"github.com/tradenest/tradenest/internal/trade"
)

// defaultPace is the delay between consecutive rows of a batch, keeping
// sequential gateway calls under provider rate limits.
const defaultPace = 200 * time.Millisecond

// ProductAnalyzer analyzes one product, degrading to deterministic output
// when the remote gateway is unavailable.
type ProductAnalyzer interface {
	AnalyzeProduct(ctx context.Context, productName, description string) (ai.ProductAnalysis, error)
}

// BatchAnalyzer turns parsed CSV rows into classified inventory items,
// strictly one row at a time.
type BatchAnalyzer struct {
	analyzer ProductAnalyzer
	logger   *zap.Logger
	pace     time.Duration
	now      func() time.Time
}

// NewBatchAnalyzer creates a batch analyzer with the default row pacing.
func NewBatchAnalyzer(analyzer ProductAnalyzer, logger *zap.Logger) *BatchAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchAnalyzer{
		analyzer: analyzer,
		logger:   logger,
		pace:     defaultPace,
		now:      time.Now,
	}
}

// SetPacing overrides the delay between rows. Zero disables pacing.
func (b *BatchAnalyzer) SetPacing(d time.Duration) {
	b.pace = d
}

// Process analyzes rows in order and returns one item per processed row.
// Cancellation is honored between rows; the row in flight always completes,
// so a partial result is returned alongside the context error.
func (b *BatchAnalyzer) Process(ctx context.Context, rows []InventoryRow) ([]inventory.Item, error) {
	items := make([]inventory.Item, 0, len(rows))

	for i, row := range rows {
		if i > 0 {
			if err := b.pause(ctx); err != nil {
				return items, err
			}
		}

		items = append(items, b.processRow(ctx, i, row))
	}

	return items, nil
}

func (b *BatchAnalyzer) processRow(ctx context.Context, index int, row InventoryRow) inventory.Item {
	item := inventory.Item{
		ID:           inventory.NewItemID(),
		SKU:          row.SKU,
		Name:         row.Name,
		Availability: row.Availability,
		Warehouse:    row.Warehouse,
		Country:      row.Country,
		Description:  row.Description,
		LastSynced:   b.now().UTC(),
		Status:       inventory.StatusFor(row.Availability),
	}
	if item.SKU == "" {
		item.SKU = fmt.Sprintf("SKU-%d-%d", b.now().UnixMilli(), index)
	}

	analysis, err := b.analyzer.AnalyzeProduct(ctx, row.Name, row.Description)
	if err != nil {
		b.logger.Warn("batch row analysis failed, using defaults",
			zap.Int("row", index),
			zap.String("name", row.Name),
			zap.Error(err))
		item.Category = trade.DefaultCategory
		item.HSCode = trade.SentinelHSCode
		return item
	}

	item.Category = analysis.Category
	item.HSCode = analysis.HSCode
	item.AIClassified = analysis.AIClassified
	item.MarketDemand = analysis.MarketDemand
	item.Seasonality = analysis.Seasonality
	item.ComplianceRisk = analysis.ComplianceRisk
	if analysis.Description != "" {
		item.Description = analysis.Description
	}
	if !analysis.SuggestedPrice.IsZero() {
		price := analysis.SuggestedPrice
		item.Price = &price
	}

	return item
}

// pause waits out the row pacing delay, aborting early on cancellation.
func (b *BatchAnalyzer) pause(ctx context.Context) error {
	if b.pace <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(b.pace)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
