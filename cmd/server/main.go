package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/config"
	"github.com/bolivianotech/consulta-aulas-backend/internal/database"
	"github.com/bolivianotech/consulta-aulas-backend/internal/handler"
	"github.com/bolivianotech/consulta-aulas-backend/internal/logger"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/router"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/bolivianotech/consulta-aulas-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Consulta de Aulas backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	assignmentRepo := repository.NewAssignmentRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	lookupService := service.NewLookupService(assignmentRepo, rdb, cfg.CatalogCacheTTL, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, lookupService, log)
	importService := service.NewImportService(assignmentRepo, lookupService, log)
	exportService := service.NewExportService(assignmentRepo, auditRepo, log)
	auditService := service.NewAuditService(auditRepo)
	monitor := service.NewSessionMonitor(ctx, cfg.SessionWindow, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		System:     handler.NewSystemHandler(lookupService),
		Lookup:     handler.NewLookupHandler(lookupService),
		Assignment: handler.NewAssignmentHandler(assignmentService),
		Upload:     handler.NewUploadHandler(importService, cfg.MaxUploadBytes),
		Export:     handler.NewExportHandler(exportService),
		Audit:      handler.NewAuditHandler(auditService),
		Session:    handler.NewSessionHandler(monitor),
	}

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the lookup catalogs BEFORE accepting traffic so the first
	// public queries never hit a cold cache.
	if err := lookupService.PrewarmCatalogs(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
