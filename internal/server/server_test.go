package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradenest/tradenest/internal/ai"
	"github.com/tradenest/tradenest/internal/export"
	"github.com/tradenest/tradenest/internal/ingest"
	"github.com/tradenest/tradenest/internal/inventory"
	"github.com/tradenest/tradenest/internal/trade"
)

type offlineGateway struct{}

func (offlineGateway) Complete(context.Context, string) (string, error) {
	return "", errors.New("gateway unreachable")
}

func newTestRouter(t *testing.T) (*gin.Engine, *inventory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	analyzer := ai.NewAnalyzer(offlineGateway{},
		trade.NewClassifier(logger),
		trade.NewEstimator(logger),
		trade.NewDocumentSynthesizer(logger),
		logger)

	store := inventory.NewStore(nil, logger)
	handlers := NewHandlers(analyzer, store, ingest.NewBatchAnalyzer(analyzer, logger), export.NewReporter(), logger)

	srv := New(Config{Host: "127.0.0.1", Port: 0}, handlers, logger)
	return srv.Router(), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestClassifyFallsBackWhenGatewayDown(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/classify", gin.H{
		"name":        "Wireless Headphones",
		"description": "Bluetooth over-ear headphones",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result trade.ClassificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "8518.30.00", result.HSCode)
	assert.Equal(t, trade.MatchedConfidence, result.Confidence)
}

func TestClassifyAcceptsAttributeList(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/classify", gin.H{
		"name":       "Portable sound bar",
		"attributes": []string{"audio", "bluetooth"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result trade.ClassificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "8518.30.00", result.HSCode)
}

func TestClassifyRequiresName(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/classify", gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaxesRejectsNegativeValue(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/taxes", gin.H{
		"productName":  "Headphones",
		"value":        "-10",
		"destinations": []string{"Germany"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid input")
}

func TestTaxesDefaultsDestinations(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/taxes", gin.H{
		"productName": "Headphones",
		"value":       "100",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Calculations []trade.TaxCalculation `json:"calculations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Calculations, len(ai.DefaultDestinations))
	assert.Equal(t, ai.DefaultDestinations[0], resp.Calculations[0].Country)
}

func TestDocumentRejectsUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/documents", gin.H{
		"type":        "mystery-paper",
		"productName": "Headphones",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentFallsBackToTemplate(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/documents", gin.H{
		"type":        "commercial-invoice",
		"productName": "Headphones",
		"destination": "Germany",
		"orderValue":  "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMMERCIAL INVOICE")
}

func TestInventoryLifecycle(t *testing.T) {
	router, store := newTestRouter(t)
	store.Replace([]inventory.Item{{
		ID:           "item-1",
		SKU:          "WH-001",
		Name:         "Wireless Headphones",
		Category:     "Electronics - Audio",
		Availability: 45,
		Status:       inventory.StatusInStock,
	}})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "WH-001")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/inventory/item-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/inventory/item-1", gin.H{"availability": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	item, ok := store.ByID("item-1")
	require.True(t, ok)
	assert.Equal(t, inventory.StatusLowStock, item.Status)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/inventory/item-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/inventory/item-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateItemClassifiesAndDefaults(t *testing.T) {
	router, store := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/inventory", gin.H{
		"name":         "Wireless Headphones",
		"availability": 45,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	items := store.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "8518.30.00", items[0].HSCode)
	assert.Equal(t, ingest.DefaultWarehouse, items[0].Warehouse)
	assert.Equal(t, ingest.DefaultCountry, items[0].Country)
	assert.Equal(t, inventory.StatusInStock, items[0].Status)
}

func TestInventorySearch(t *testing.T) {
	router, store := newTestRouter(t)
	store.Replace([]inventory.Item{
		{ID: "item-1", SKU: "WH-001", Name: "Wireless Headphones", Category: "Electronics - Audio", Status: inventory.StatusInStock},
		{ID: "item-2", SKU: "TS-010", Name: "Cotton T-Shirt", Category: "Textiles - Tops", Status: inventory.StatusOutOfStock},
	})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/inventory/search?q=headphones", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/inventory/search?status=out-of-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "TS-010")
}

func uploadCSV(t *testing.T, router *gin.Engine, path, csvContent string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadInventory(t *testing.T) {
	router, store := newTestRouter(t)

	rec := uploadCSV(t, router, "/api/v1/inventory/upload",
		"name,sku,availability\nWireless Headphones,WH-001,45\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":1`)

	items := store.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "8518.30.00", items[0].HSCode)
	assert.False(t, items[0].AIClassified)
}

func TestUploadInventoryRequiresFile(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/upload", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadLogisticsAndExport(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := uploadCSV(t, router, "/api/v1/logistics/upload",
		"warehouse_id,warehouse_name,quantity\nWH-01,Berlin Hub,45\n")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/exports/logistics?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Berlin Hub")
}

func TestExportFormats(t *testing.T) {
	router, store := newTestRouter(t)
	store.Replace([]inventory.Item{{
		ID: "item-1", SKU: "WH-001", Name: "Wireless Headphones",
		Availability: 45, Status: inventory.StatusInStock,
	}})

	tests := []struct {
		format      string
		contentType string
	}{
		{"csv", "text/csv"},
		{"excel", "application/vnd.ms-excel"},
		{"pdf", "text/html"},
		{"xlsx", "application/vnd.openxmlformats"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, "/api/v1/exports/inventory?format="+tt.format, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.NotZero(t, rec.Body.Len())
		})
	}
}

func TestExportUnknownReport(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/exports/payroll", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportUnknownFormat(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/exports/inventory?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
