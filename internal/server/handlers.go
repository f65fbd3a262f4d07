package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradenest/tradenest/internal/ai"
	"github.com/tradenest/tradenest/internal/export"
	"github.com/tradenest/tradenest/internal/ingest"
	"github.com/tradenest/tradenest/internal/inventory"
	"github.com/tradenest/tradenest/internal/logistics"
	"github.com/tradenest/tradenest/internal/trade"
)

// maxUploadSize bounds CSV uploads.
const defaultMaxUploadSize = 10 << 20

// Handlers holds the API endpoint implementations.
type Handlers struct {
	analyzer *ai.Analyzer
	store    *inventory.Store
	batch    *ingest.BatchAnalyzer
	reporter *export.Reporter
	logger   *zap.Logger

	maxUploadSize int64

	mu               sync.RWMutex
	logisticsRecords []logistics.Record
}

// NewHandlers creates the API handlers.
func NewHandlers(analyzer *ai.Analyzer, store *inventory.Store, batch *ingest.BatchAnalyzer, reporter *export.Reporter, logger *zap.Logger) *Handlers {
	return &Handlers{
		analyzer:      analyzer,
		store:         store,
		batch:         batch,
		reporter:      reporter,
		logger:        logger,
		maxUploadSize: defaultMaxUploadSize,
	}
}

// SetMaxUploadSize overrides the CSV upload size limit.
func (h *Handlers) SetMaxUploadSize(size int64) {
	if size > 0 {
		h.maxUploadSize = size
	}
}

// Health reports service liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tradenest",
		"time":    time.Now().Format(time.RFC3339),
	})
}

type classifyRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Attributes      []string `json:"attributes"`
	DetectedObjects []string `json:"detectedObjects"`
}

// Classify returns the HS classification for a product, remote-enhanced
// when the gateway is reachable.
func (h *Handlers) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	result, err := h.analyzer.ClassifyProduct(c.Request.Context(), trade.ProductDescriptor{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Attributes:      req.Attributes,
		DetectedObjects: req.DetectedObjects,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type taxRequest struct {
	ProductName  string          `json:"productName" binding:"required"`
	Category     string          `json:"category"`
	HSCode       string          `json:"hsCode"`
	Value        decimal.Decimal `json:"value"`
	Destinations []string        `json:"destinations"`
}

// Taxes estimates landed cost for a product value across destinations.
func (h *Handlers) Taxes(c *gin.Context) {
	var req taxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}

	destinations := req.Destinations
	if len(destinations) == 0 {
		destinations = ai.DefaultDestinations
	}

	calcs, err := h.analyzer.EstimateTaxes(c.Request.Context(), req.ProductName, req.Category, req.HSCode, req.Value, destinations)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"calculations": calcs})
}

type documentRequest struct {
	Type        string          `json:"type" binding:"required"`
	ProductName string          `json:"productName" binding:"required"`
	HSCode      string          `json:"hsCode"`
	Destination string          `json:"destination"`
	OrderValue  decimal.Decimal `json:"orderValue"`
}

// Document generates a compliance document, falling back to the built-in
// template when the gateway is down.
func (h *Handlers) Document(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and productName are required"})
		return
	}

	doc, err := h.analyzer.GenerateDocument(c.Request.Context(), trade.DocumentType(req.Type),
		trade.DocumentProduct{Name: req.ProductName, HSCode: req.HSCode},
		req.Destination, req.OrderValue)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

type insightsRequest struct {
	Query string `json:"query" binding:"required"`
}

// Insights answers a free-text trade question.
func (h *Handlers) Insights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"insights": h.analyzer.TradeInsights(c.Request.Context(), req.Query),
	})
}

type analyzeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Analyze returns the full product analysis used by batch ingestion.
func (h *Handlers) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	analysis, err := h.analyzer.AnalyzeProduct(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// InventorySnapshot returns the full inventory snapshot.
func (h *Handlers) InventorySnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// InventoryDashboard returns aggregate inventory stats.
func (h *Handlers) InventoryDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Dashboard())
}

// InventoryItem returns one item by ID.
func (h *Handlers) InventoryItem(c *gin.Context) {
	item, ok := h.store.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// InventorySearch filters items by free-text query, category, or status.
func (h *Handlers) InventorySearch(c *gin.Context) {
	var items []inventory.Item
	switch {
	case c.Query("q") != "":
		items = h.store.Search(c.Query("q"))
	case c.Query("category") != "":
		items = h.store.ByCategory(c.Query("category"))
	case c.Query("status") != "":
		items = h.store.ByStatus(inventory.Status(c.Query("status")))
	case c.Query("sku") != "":
		items = h.store.BySKU(c.Query("sku"))
	default:
		items = h.store.Snapshot().Items
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

type createItemRequest struct {
	Name         string `json:"name" binding:"required"`
	SKU          string `json:"sku"`
	Availability int    `json:"availability"`
	Warehouse    string `json:"warehouse"`
	Country      string `json:"country"`
	Description  string `json:"description"`
}

// CreateItem classifies a single product and appends it to the inventory.
func (h *Handlers) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	row := ingest.InventoryRow{
		Name:         req.Name,
		SKU:          req.SKU,
		Availability: req.Availability,
		Warehouse:    req.Warehouse,
		Country:      req.Country,
		Description:  req.Description,
	}
	if row.Warehouse == "" {
		row.Warehouse = ingest.DefaultWarehouse
	}
	if row.Country == "" {
		row.Country = ingest.DefaultCountry
	}

	items, err := h.batch.Process(c.Request.Context(), []ingest.InventoryRow{row})
	if err != nil || len(items) == 0 {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		return
	}

	h.store.Add(items)
	c.JSON(http.StatusCreated, items[0])
}

type updateItemRequest struct {
	Name         *string `json:"name"`
	Availability *int    `json:"availability"`
	Warehouse    *string `json:"warehouse"`
	Country      *string `json:"country"`
}

// UpdateItem applies a partial update; stock status is re-derived from
// availability, the classification fields stay untouched.
func (h *Handlers) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated := h.store.Update(c.Param("id"), func(item *inventory.Item) {
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Availability != nil {
			item.Availability = *req.Availability
		}
		if req.Warehouse != nil {
			item.Warehouse = *req.Warehouse
		}
		if req.Country != nil {
			item.Country = *req.Country
		}
	})
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	item, _ := h.store.ByID(c.Param("id"))
	c.JSON(http.StatusOK, item)
}

// RemoveItem deletes one item by ID.
func (h *Handlers) RemoveItem(c *gin.Context) {
	if !h.store.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadInventory ingests a CSV upload, classifies every row sequentially,
// and replaces the inventory with the result.
func (h *Handlers) UploadInventory(c *gin.Context) {
	file, err := h.openUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	rows, err := ingest.ReadInventoryCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.batch.Process(c.Request.Context(), rows)
	if err != nil {
		// client went away mid-batch; nothing to respond to
		h.logger.Warn("inventory batch aborted", zap.Int("processed", len(items)), zap.Error(err))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "upload cancelled", "processed": len(items)})
		return
	}

	h.store.Replace(items)
	c.JSON(http.StatusOK, gin.H{"imported": len(items)})
}

// UploadLogistics ingests a logistics CSV upload and retains it for the
// logistics report.
func (h *Handlers) UploadLogistics(c *gin.Context) {
	file, err := h.openUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	records, err := logistics.ReadCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.logisticsRecords = records
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"imported": len(records)})
}

// Export streams a report in the requested format.
func (h *Handlers) Export(c *gin.Context) {
	data, ok := h.reportData(c.Param("report"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		c.Header("Content-Disposition", attachment(data.Filename+".csv"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		err := export.WriteCSV(c.Writer, data)
		h.logExportError(c, format, err)
	case "excel":
		c.Header("Content-Disposition", attachment(data.Filename+".xls"))
		c.Header("Content-Type", "application/vnd.ms-excel; charset=utf-8")
		err := export.WriteSpreadsheetHTML(c.Writer, data)
		h.logExportError(c, format, err)
	case "pdf":
		c.Header("Content-Type", "text/html; charset=utf-8")
		err := export.WritePrintHTML(c.Writer, data, time.Now())
		h.logExportError(c, format, err)
	case "xlsx":
		c.Header("Content-Disposition", attachment(data.Filename+".xlsx"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err := export.WriteXLSX(c.Writer, data)
		h.logExportError(c, format, err)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, excel, pdf, or xlsx"})
	}
}

func (h *Handlers) reportData(report string) (export.ExportData, bool) {
	switch report {
	case "inventory":
		return h.reporter.Inventory(h.store.Snapshot()), true
	case "billing":
		return h.reporter.Transactions(h.store.Snapshot().BillingRows()), true
	case "compliance":
		return h.reporter.Compliance(h.store.Snapshot().ComplianceRows()), true
	case "logistics":
		h.mu.RLock()
		records := h.logisticsRecords
		h.mu.RUnlock()
		return h.reporter.Logistics(records), true
	case "dashboard":
		return h.reporter.Dashboard(h.store.Snapshot().Dashboard()), true
	default:
		return export.ExportData{}, false
	}
}

func (h *Handlers) openUpload(c *gin.Context) (multipartFile, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file is required")
	}
	if header.Size > h.maxUploadSize {
		return nil, errors.New("file exceeds upload size limit")
	}
	file, err := header.Open()
	if err != nil {
		return nil, errors.New("failed to open upload")
	}
	return file, nil
}

type multipartFile interface {
	Read(p []byte) (int, error)
	Close() error
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	if errors.Is(err, trade.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handlers) logExportError(c *gin.Context, format string, err error) {
	if err == nil {
		return
	}
	h.logger.Error("Export failed",
		zap.String("report", c.Param("report")),
		zap.String("format", format),
		zap.Error(err))
}

func attachment(filename string) string {
	return `attachment; filename="` + strings.ReplaceAll(filename, `"`, "") + `"`
}
