package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/shanehull/ratescout/internal/storage"
)

func main() {
	reportPath := flag.String("report", "data/beckley_rates.json", "Path to the rate report")
	dbPath := flag.String("db", "", "Path to DuckDB file (in-memory when empty)")
	hotel := flag.String("hotel", "", "Filter by hotel (case-insensitive contains)")
	labels := flag.String("labels", "", "Filter by check-in labels (e.g. Today,Friday)")
	available := flag.Bool("available", false, "Only rows with a rate")
	maxPrice := flag.Int("max-price", 0, "Maximum nightly rate (low end)")
	outPath := flag.String("out", "data/beckley_rates.csv", "Output CSV path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	report, err := storage.ReadReport(*reportPath)
	if err != nil {
		logger.Error("Failed to read report", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewDuckDBRepo(*dbPath, logger)
	if err != nil {
		logger.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		logger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	if _, err := repo.LoadReport(ctx, report); err != nil {
		logger.Error("Failed to load report", "error", err)
		os.Exit(1)
	}

	filter := storage.ExportFilter{
		Hotel:         *hotel,
		AvailableOnly: *available,
		MaxPrice:      *maxPrice,
	}
	if *labels != "" {
		filter.Labels = strings.Split(*labels, ",")
	}

	if err := repo.ExportCSV(ctx, *outPath, filter); err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}
	n, _ := repo.Count(ctx, filter)
	logger.Info("Export complete", "output", *outPath, "rows", n)
}
