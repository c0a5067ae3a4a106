// Package main runs the batch valuation pipeline:
// ingestion → identity resolution → aggregation → valuation → validation → reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/giraffingoutloud/fftool/internal/config"
	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/ingestion"
	"github.com/giraffingoutloud/fftool/internal/observability"
	"github.com/giraffingoutloud/fftool/internal/pipeline"
	"github.com/giraffingoutloud/fftool/internal/reporting"
	"github.com/giraffingoutloud/fftool/internal/storage"
	chstore "github.com/giraffingoutloud/fftool/internal/storage/clickhouse"
	pgstore "github.com/giraffingoutloud/fftool/internal/storage/postgres"
	"github.com/giraffingoutloud/fftool/internal/valuation"
)

func main() {
	sourceDir := flag.String("source-dir", "data", "Directory of per-source projection CSVs (<source>.csv)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated reports")
	corrections := flag.String("corrections", "", "Optional manual corrections CSV")
	verbose := flag.Bool("verbose", false, "Debug-level logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	logger := observability.NewLogger(cfg.LogLevel)
	metrics := observability.NewMetrics("fftool")

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	fmt.Println("=== Auction Valuation Pipeline ===")

	start := time.Now()
	records, err := loadSources(*sourceDir, cfg, metrics, logger)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("failure").Inc()
		fmt.Fprintf(os.Stderr, "Ingestion error: %v\n", err)
		os.Exit(1)
	}
	metrics.PipelineDuration.WithLabelValues("ingestion").Observe(time.Since(start).Seconds())

	settings := cfg.LeagueSettings()
	p := pipeline.New(settings, pipeline.Options{
		SourceWeights: cfg.SourceWeights,
		MinSources:    cfg.MinSources,
		MinConfidence: cfg.MinConfidence,
		Metrics:       metrics,
		Logger:        logger,
	})

	start = time.Now()
	results, err := p.AggregateAndValuate(records)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("failure").Inc()
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}
	metrics.PipelineDuration.WithLabelValues("valuation").Observe(time.Since(start).Seconds())

	if *corrections != "" {
		if err := applyCorrections(*corrections, results, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Corrections error: %v\n", err)
			os.Exit(1)
		}
	}

	report := p.Validate(results)
	gen := reporting.NewGenerator(settings)
	out := gen.Generate(results, report, p.Exclusions())

	if err := writeReports(*outputDir, results, out); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}

	if err := persist(ctx, cfg, p, results, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Persistence error: %v\n", err)
		os.Exit(1)
	}

	metrics.PipelineRunsTotal.WithLabelValues("success").Inc()

	fmt.Printf("Pipeline completed:\n")
	fmt.Printf("  Players valued: %d\n", len(results))
	fmt.Printf("  Excluded: %d\n", len(out.Exclusions))
	fmt.Printf("  Budget: %.1f%% of league total\n", report.PercentOfBudget)
	if report.RescaleFactor != 1.0 {
		fmt.Printf("  Rescale applied: %.4f\n", report.RescaleFactor)
	}
	fmt.Printf("  - %s/auction_values.csv\n", *outputDir)
	fmt.Printf("  - %s/DRAFT_SHEET.md\n", *outputDir)
}

// loadSources reads one CSV per configured source from dir. A source without
// a file is skipped with a warning; a file over the quarantine ceiling fails
// the whole run.
func loadSources(dir string, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (map[string][]domain.RawRecord, error) {
	loader := ingestion.NewLoader(logger)
	loader.MaxQuarantineRatio = cfg.MaxQuarantineRatio

	sources := make([]string, 0, len(cfg.SourceWeights))
	for source := range cfg.SourceWeights {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	records := make(map[string][]domain.RawRecord, len(cfg.SourceWeights))
	for _, source := range sources {
		path := filepath.Join(dir, source+".csv")
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("source file missing, skipped",
				slog.String("source", source), slog.String("path", path))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		result, err := loader.Load(source, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", source, err)
		}
		metrics.RecordsLoaded.WithLabelValues(source).Add(float64(len(result.Records)))
		metrics.RecordsQuarantined.WithLabelValues(source).Add(float64(len(result.Quarantined)))
		fmt.Printf("  %s: %d records, %d quarantined, %d coerced\n",
			source, len(result.Records), len(result.Quarantined), result.Coerced)
		records[source] = result.Records
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no source files found in %s", dir)
	}
	return records, nil
}

func applyCorrections(path string, results []*domain.ValuationResult, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := valuation.LoadCorrections(f)
	if err != nil {
		return err
	}
	applied := table.Apply(results, logger)
	valuation.SortResults(results)
	fmt.Printf("  Corrections applied: %d\n", applied)
	return nil
}

func writeReports(dir string, results []*domain.ValuationResult, out *reporting.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	csvPath := filepath.Join(dir, "auction_values.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(results)), 0o644); err != nil {
		return err
	}
	mdPath := filepath.Join(dir, "DRAFT_SHEET.md")
	return os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(out)), 0o644)
}

// persist mirrors the run into PostgreSQL and appends a dated ClickHouse
// snapshot when DSNs are configured. Both are optional.
func persist(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, results []*domain.ValuationResult, logger *slog.Logger) error {
	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		players := pgstore.NewPlayerStore(pool)
		for _, ident := range p.Identities() {
			if err := players.Insert(ctx, ident); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("insert player %s: %w", ident.PlayerID, err)
			}
		}
		projections := pgstore.NewProjectionStore(pool)
		for _, proj := range p.Projections() {
			if err := projections.Insert(ctx, proj); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("insert projection %s/%s: %w", proj.SourceName, proj.PlayerID, err)
			}
		}
		if err := pgstore.NewValuationStore(pool).InsertBulk(ctx, results); err != nil {
			return fmt.Errorf("insert valuations: %w", err)
		}
		logger.Info("valuations persisted",
			slog.Int("players", len(results)),
			slog.Int("projections", len(p.Projections())))
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("clickhouse: %w", err)
		}
		defer conn.Close()

		if err := chstore.NewSnapshotStore(conn).AppendSnapshot(ctx, time.Now().UTC(), results); err != nil {
			return fmt.Errorf("append snapshot: %w", err)
		}
		logger.Info("snapshot appended", slog.Int("players", len(results)))
	}
	return nil
}
