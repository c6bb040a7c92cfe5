package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"docmill/internal/config"
	"docmill/internal/formats"
	"docmill/internal/handler"
	"docmill/internal/middleware"
	"docmill/internal/service/artifact"
	"docmill/internal/service/convert"
	"docmill/internal/service/history"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Failed to prepare data directories: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"upload_dir", cfg.UploadDir,
		"output_dir", cfg.OutputDir,
		"artifact_ttl", cfg.ArtifactTTL,
	)

	// Format registry (embedded allow-list and conversion targets)
	formatRegistry, err := formats.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load format registry: %v", err)
	}

	// Artifact registry and history log: constructed once, passed by
	// reference, internally synchronized.
	artifactRegistry, err := artifact.NewRegistry(cfg.OutputDir, logger)
	if err != nil {
		log.Fatalf("Failed to create artifact registry: %v", err)
	}
	historyLog := history.NewLog(config.HistoryCapacity)

	// Conversion pipeline
	orchestrator := convert.NewOrchestrator(convert.OrchestratorDeps{
		Formats:          formatRegistry,
		Sniffer:          convert.NewContentSniffer(formatRegistry),
		Extractors:       convert.NewExtractorRegistry(),
		Encoders:         convert.NewEncoderRegistry(),
		OCR:              convert.NewDisabledOCR(),
		Packager:         convert.NewPackager(cfg.OutputDir, logger),
		Registry:         artifactRegistry,
		History:          historyLog,
		Logger:           logger,
		MaxFilesPerBatch: cfg.MaxFilesPerBatch,
		MaxFileSizeBytes: cfg.MaxFileSizeBytes(),
	})

	// Retention sweeper runs independently of request traffic.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweeper := artifact.NewSweeper(
		[]string{cfg.UploadDir, cfg.OutputDir},
		cfg.ArtifactTTL,
		cfg.SweepInterval,
		logger,
	)
	go sweeper.Run(sweepCtx)

	// Handlers
	convertHandler := handler.NewConvertHandler(orchestrator, cfg.UploadDir, logger)
	downloadHandler := handler.NewDownloadHandler(artifactRegistry, logger)
	historyHandler := handler.NewHistoryHandler(historyLog, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("POST /api/convert", convertHandler.Convert)
	mux.HandleFunc("GET /api/history", historyHandler.Recent)
	mux.HandleFunc("GET /download/{id}/{name}", downloadHandler.Download)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestLogger(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop accepting requests, then stop the sweeper.
	shutdownDone := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		stopSweeper()
		close(shutdownDone)
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
	<-shutdownDone
}
