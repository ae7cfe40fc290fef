package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/xid"

	"superhost-analysis/charts"
	"superhost-analysis/config"
	"superhost-analysis/models"
	"superhost-analysis/services"
	"superhost-analysis/storage"
	"superhost-analysis/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger().Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	runID := xid.New().String()
	logger := utils.NewLoggerWithLevel(os.Stdout, cfg.LogLevel).With("run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runID, logger); err != nil {
		logger.Error("Run failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, runID string, logger *utils.Logger) error {
	logger.Info("=== Superhost analysis starting ===")
	logger.Info("Config — source: %s | output: %s | outlier band: %.1f sd",
		cfg.Source(), cfg.VizOutDir, cfg.OutlierSD)

	reader := storage.NewListingsReader(cfg.MaxRetries, logger)
	raw, err := reader.Load(ctx, cfg.Source())
	if err != nil {
		return err
	}
	logger.Info("Loaded raw table: %d rows x %d columns", raw.Nrow(), raw.Ncol())

	cleaner := services.NewCleaner(logger, services.CleanOptions{
		DropKeywords:      services.DefaultCleanOptions().DropKeywords,
		NADropThreshold:   cfg.NADropThreshold,
		MaxPrice:          cfg.MaxPrice,
		IrrelevantColumns: services.DefaultCleanOptions().IrrelevantColumns,
	})
	clean, report, err := cleaner.Clean(raw)
	if err != nil {
		return err
	}
	logger.Info("Cleaned table: %d of %d rows kept", report.RowsOut, report.RowsIn)

	decoded, err := services.NewDecoder(logger).Decode(clean)
	if err != nil {
		return err
	}
	listings := services.NewTransformer(services.Point{Lat: cfg.CentreLat, Lon: cfg.CentreLon}).
		AddDerivedColumns(decoded)
	if len(listings) == 0 {
		return fmt.Errorf("all listings were dropped during cleaning: %w", services.ErrEmptyTable)
	}

	style := charts.DefaultStyle(cfg.VizOutDir)
	style.Width, style.Height = cfg.FigWidth, cfg.FigHeight
	style.SuperhostColor, style.HostColor = cfg.SuperhostColor, cfg.HostColor
	renderer := charts.NewRenderer(style, logger)
	if cfg.MapSnapshot {
		renderer.WithSnapshotter(charts.NewChromeSnapshotter(cfg.ChromeBin, 1200, 900, logger))
	}

	analysis := services.NewAnalysis(renderer, services.OutlierOptions{
		SDThreshold:  cfg.OutlierSD,
		WarnFraction: cfg.OutlierWarnFraction,
	}, logger)
	result, err := analysis.Run(ctx, runID, listings)
	if err != nil {
		return err
	}
	if n := len(result.Failures); n > 0 {
		logger.Warn("%d charts could not be drawn", n)
	}
	analysis.Print(result.Report)

	export(ctx, cfg, runID, listings, result, logger)

	fmt.Printf("  Done. Charts → %s | Clean data → %s | Summary → %s\n\n",
		cfg.VizOutDir, cfg.CleanCSVPath, cfg.SummaryXLSXPath)
	return nil
}

// export writes the cleaned listings and the summary. Failures are logged, not fatal.
func export(ctx context.Context, cfg *config.Config, runID string, listings []*models.Listing,
	result *services.AnalysisResult, logger *utils.Logger) {
	csvWriter, err := storage.NewCSVWriter(cfg.CleanCSVPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		writeListings(ctx, csvWriter, "CSV", runID, listings, logger)
	}

	var summary storage.SummaryWriter = storage.NewExcelWriter(cfg.SummaryXLSXPath)
	if err := summary.WriteSummary(result.Report, result.Tables); err != nil {
		logger.Error("Summary workbook failed: %v", err)
	} else {
		logger.Info("Summary saved to %s", cfg.SummaryXLSXPath)
	}

	var (
		db      storage.ListingWriter
		backend string
	)
	switch cfg.StoreBackend {
	case "postgres":
		backend = "PostgreSQL"
		db, err = storage.NewPostgresWriter(ctx, cfg.DSN(), logger)
	case "sqlite":
		backend = "SQLite"
		db, err = storage.NewSQLiteWriter(ctx, cfg.SQLitePath)
	default:
		return
	}
	if err != nil {
		logger.Error("Failed to connect to %s: %v", backend, err)
		return
	}
	writeListings(ctx, db, backend, runID, listings, logger)
}

func writeListings(ctx context.Context, w storage.ListingWriter, name, runID string,
	listings []*models.Listing, logger *utils.Logger) {
	defer w.Close()
	if err := w.Write(ctx, runID, listings); err != nil {
		logger.Error("%s write failed: %v", name, err)
		return
	}
	logger.Info("Clean listings stored in %s (%d rows)", name, len(listings))
}
