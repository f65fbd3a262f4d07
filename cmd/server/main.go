package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/tradenest/tradenest/internal/ai"
	"github.com/tradenest/tradenest/internal/config"
	"github.com/tradenest/tradenest/internal/export"
	"github.com/tradenest/tradenest/internal/ingest"
	"github.com/tradenest/tradenest/internal/inventory"
	"github.com/tradenest/tradenest/internal/server"
	"github.com/tradenest/tradenest/internal/trade"
	"github.com/tradenest/tradenest/pkg/database"
	"github.com/tradenest/tradenest/pkg/utils"
)

func main() {
	gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting TradeNest trade operations service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		logger.Fatal("Failed to initialize database schema", zap.Error(err))
	}

	snapshots := inventory.NewSnapshotRepository(db, logger)
	store := inventory.NewStore(snapshots.Save, logger)

	if snapshot, ok, err := snapshots.Load(); err != nil {
		logger.Warn("Failed to load inventory snapshot", zap.Error(err))
	} else if ok {
		store.Replace(snapshot.Items)
		logger.Info("Restored inventory snapshot",
			zap.Int("items", len(snapshot.Items)))
	}

	gateway := ai.NewOpenAIGateway(ai.GatewayConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	}, logger)

	analyzer := ai.NewAnalyzer(gateway,
		trade.NewClassifier(logger),
		trade.NewEstimator(logger),
		trade.NewDocumentSynthesizer(logger),
		logger)

	batch := ingest.NewBatchAnalyzer(analyzer, logger)
	batch.SetPacing(cfg.Ingest.RowPacing)

	handlers := server.NewHandlers(analyzer, store, batch, export.NewReporter(), logger)
	handlers.SetMaxUploadSize(cfg.Ingest.MaxFileSize)

	srv := server.New(server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Logger.Level == "debug",
	}, handlers, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
