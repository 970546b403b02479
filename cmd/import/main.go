package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/config"
	"github.com/bolivianotech/consulta-aulas-backend/internal/database"
	"github.com/bolivianotech/consulta-aulas-backend/internal/importer"
	"github.com/bolivianotech/consulta-aulas-backend/internal/logger"
	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
)

func main() {
	var (
		file   = flag.String("file", "", "path to the LISTADO GENERAL POR GRUPOS workbook (.xlsx/.xlsm)")
		dryRun = flag.Bool("dry-run", false, "parse and report without touching the database")
	)
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: import -file <workbook.xlsx> [-dry-run]")
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read workbook")
	}
	filename := filepath.Base(*file)

	if *dryRun {
		res, err := importer.Parse(data, filename)
		if err != nil {
			log.Fatal().Err(err).Msg("Workbook rejected")
		}

		fmt.Printf("=== Dry run: %s ===\n", filename)
		fmt.Printf("Rows scanned: %d\n", res.Report.TotalRows)
		fmt.Printf("Accepted:     %d\n", res.Report.Accepted)
		fmt.Printf("Rejected:     %d\n", res.Report.Rejected)
		fmt.Printf("Duplicates:   %d collapsed\n", res.Report.DuplicatesCollapsed)
		fmt.Printf("Would import: %d records\n", len(res.Candidates))
		printRejections(res.Report.RejectionReasons)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	assignmentRepo := repository.NewAssignmentRepository(pool)
	lookupService := service.NewLookupService(assignmentRepo, rdb, cfg.CatalogCacheTTL, log)
	importService := service.NewImportService(assignmentRepo, lookupService, log)

	summary, err := importService.ImportWorkbook(ctx, data, filename, model.Actor{ClientID: "cli", UserAgent: "cmd/import"})
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("=== Imported: %s ===\n", summary.Filename)
	fmt.Printf("Rows scanned: %d\n", summary.TotalRows)
	fmt.Printf("Accepted:     %d\n", summary.Accepted)
	fmt.Printf("Rejected:     %d\n", summary.Rejected)
	fmt.Printf("Duplicates:   %d collapsed\n", summary.DuplicatesCollapsed)
	fmt.Printf("Dataset:      %d -> %d records (+%d added, -%d removed)\n",
		summary.PreviousCount, summary.NewCount, summary.Added, summary.Removed)
	printRejections(summary.RejectionReasons)
}

func printRejections(reasons []model.RowError) {
	if len(reasons) == 0 {
		return
	}
	fmt.Println("Rejected rows:")
	for _, r := range reasons {
		if r.Detail != "" {
			fmt.Printf("  %s: %s\n", r.String(), r.Detail)
			continue
		}
		fmt.Printf("  %s\n", r.String())
	}
}
