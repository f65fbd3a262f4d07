// Package server exposes the trade engine over a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds HTTP server settings.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server is the HTTP front end.
type Server struct {
	cfg      Config
	handlers *Handlers
	logger   *zap.Logger
	srv      *http.Server
}

// New creates the server and builds its router.
func New(cfg Config, handlers *Handlers, logger *zap.Logger) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, handlers: handlers, logger: logger}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router builds the gin engine with middleware and all API routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(s.logger))
	router.Use(corsMiddleware())

	router.GET("/health", s.handlers.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/classify", s.handlers.Classify)
		api.POST("/taxes", s.handlers.Taxes)
		api.POST("/documents", s.handlers.Document)
		api.POST("/insights", s.handlers.Insights)
		api.POST("/analyze", s.handlers.Analyze)

		api.GET("/inventory", s.handlers.InventorySnapshot)
		api.POST("/inventory", s.handlers.CreateItem)
		api.GET("/inventory/dashboard", s.handlers.InventoryDashboard)
		api.GET("/inventory/search", s.handlers.InventorySearch)
		api.GET("/inventory/:id", s.handlers.InventoryItem)
		api.PUT("/inventory/:id", s.handlers.UpdateItem)
		api.DELETE("/inventory/:id", s.handlers.RemoveItem)
		api.POST("/inventory/upload", s.handlers.UploadInventory)

		api.POST("/logistics/upload", s.handlers.UploadLogistics)

		api.GET("/exports/:report", s.handlers.Export)
	}

	return router
}

// Start begins serving. It blocks until the listener fails or the server
// shuts down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
