package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shanehull/ratescout/internal/config"
	"github.com/shanehull/ratescout/internal/dates"
	"github.com/shanehull/ratescout/internal/extract"
	"github.com/shanehull/ratescout/internal/llm"
	"github.com/shanehull/ratescout/internal/pipeline"
	"github.com/shanehull/ratescout/internal/search"
	"github.com/shanehull/ratescout/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default ratescout.yaml if present)")
	outDir := flag.String("outdir", "", "Output directory for the report and debug snapshots")
	todayRaw := flag.String("today", "", "Override today's date (YYYY-MM-DD)")
	friday := flag.String("friday", "", "Friday policy when today is Friday: inclusive or next-week")
	extractor := flag.String("extractor", "", "Delegated extractor: none, openrouter, openai, claude, gemini")
	noSnapshots := flag.Bool("no-snapshots", false, "Skip writing debug snapshots")
	debug := flag.Bool("debug", false, "Enable debug logs")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})).
		With("run", uuid.NewString())

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Config load failed", "err", err)
		os.Exit(1)
	}

	// Flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "outdir":
			cfg.OutputDir = *outDir
		case "friday":
			cfg.FridayPolicy = *friday
		case "extractor":
			cfg.Extractor.Provider = *extractor
		case "no-snapshots":
			cfg.Snapshots = !*noSnapshots
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	loc, _ := cfg.Location()
	policy, _ := dates.ParsePolicy(cfg.FridayPolicy)
	builder := dates.NewBuilder(loc, policy)

	now := time.Now()
	if *todayRaw != "" {
		now, err = builder.ParseDate(*todayRaw)
		if err != nil {
			logger.Error("Bad -today value", "err", err)
			os.Exit(1)
		}
	}
	checkins := builder.Resolve(now)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := search.Options{Pause: cfg.Pause, Timeout: cfg.Timeout}

	var searchers []search.Searcher
	serpOpts := opts
	serpOpts.BaseURL = cfg.SerpAPI.BaseURL
	serp, err := search.NewSerpAPIClient(cfg.Credentials.SerpAPI, cfg.SerpAPI.Engine, serpOpts, logger.With("provider", "serpapi"))
	if err != nil {
		logger.Error("SerpApi client failed", "err", err)
		os.Exit(1)
	}
	searchers = append(searchers, serp)

	if cfg.Credentials.RapidAPI != "" {
		expOpts := opts
		expOpts.BaseURL = cfg.Expedia.BaseURL
		exp, err := search.NewExpediaClient(cfg.Credentials.RapidAPI, cfg.Expedia.Host, expOpts, logger.With("provider", "expedia"))
		if err != nil {
			logger.Error("Expedia client failed", "err", err)
			os.Exit(1)
		}
		searchers = append(searchers, exp)
	}

	provider, _ := cfg.ExtractorProvider()
	client, err := llm.New(ctx, llm.Config{
		Provider: provider,
		APIKey:   cfg.ExtractorKey(provider),
		Model:    cfg.Extractor.Model,
		BaseURL:  cfg.Extractor.BaseURL,
		Timeout:  cfg.Timeout,
		Pause:    cfg.Pause,
	})
	if err != nil {
		logger.Error("Extractor client failed", "err", err)
		os.Exit(1)
	}

	var chain *extract.Chain
	if client != nil {
		defer client.Close()
		chain = extract.New(client, cfg.Extractor.MaxPromptBytes, logger.With("extractor", string(provider)))
	} else {
		chain = extract.New(nil, 0, logger)
	}

	var snapshots pipeline.SnapshotStore
	if cfg.Snapshots {
		snapshots = storage.NewSnapshotWriter(cfg.OutputDir)
	}

	names := make([]string, 0, len(searchers))
	for _, s := range searchers {
		names = append(names, s.Name())
	}
	logger.Info("Starting run",
		"today", checkins[0].String(),
		"zone", builder.Location().String(),
		"hotels", len(cfg.Hotels),
		"providers", names,
		"strategies", chain.Strategies())

	runner := pipeline.NewRunner(pipeline.Options{
		Hotels:    cfg.Hotels,
		Place:     cfg.Place,
		Searchers: searchers,
		Extractor: chain,
		Snapshots: snapshots,
	}, logger)

	report, s, err := runner.Run(ctx, checkins[0].Date, checkins)
	if err != nil {
		// Nothing is written on abort so the previous report stays intact
		logger.Error("Run aborted", "err", err,
			"pairs", s.Pairs,
			"search_errors", s.SearchErrors)
		os.Exit(1)
	}

	logger.Info("Pipeline Complete",
		"pairs", s.Pairs,
		"priced", s.Priced,
		"unavailable", s.Unavailable,
		"search_errors", s.SearchErrors,
		"snapshot_errors", s.SnapshotErrors)

	writer := storage.NewReportWriter(filepath.Join(cfg.OutputDir, cfg.ReportFile))
	if err := writer.Write(report); err != nil {
		logger.Error("Report write failed", "path", writer.Path(), "err", err)
		os.Exit(1)
	}
	logger.Info("Report written", "path", writer.Path())
}
