// Command processor runs the analytics pipeline over xlsx workbooks on
// disk, without the HTTP server: each input file is loaded, sanitized and
// aggregated, and its KPI results and sales table are written as CSV and
// JSON exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"truccoanalytics/internal/analytics"
	"truccoanalytics/internal/config"
	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/internal/exporter"
	"truccoanalytics/internal/infrastructure"
	"truccoanalytics/internal/validation"
	"truccoanalytics/pkg/contracts/domain"
)

const maxConcurrentFiles = 4

func main() {
	inDir := flag.String("in", "", "input directory with .xlsx files (default: the data directory)")
	outDir := flag.String("out", "", "output directory for exports (default: the exports directory)")
	season := flag.String("season", "", "restrict KPIs to one season, e.g. V25")
	family := flag.String("family", "", "restrict KPIs to one product family")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *inDir == "" {
		*inDir = cfg.Paths.DataDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.ExportsDir
	}

	validator := validation.NewFileValidator(logger)
	if len(flag.Args()) == 0 {
		if err := validator.ValidateInputDirectory(*inDir); err != nil {
			logger.Error("invalid input directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("invalid output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	files, err := collectWorkbooks(*inDir, flag.Args())
	if err != nil {
		logger.Error("failed to collect input files", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no .xlsx files to process", slog.String("in", *inDir))
		os.Exit(1)
	}

	spec := domain.FilterSpec{}
	if *season != "" {
		spec.Seasons = []string{*season}
	}
	if *family != "" {
		spec.Families = []string{*family}
	}

	proc := &processor{
		loader:     dataprocessing.NewLoader(logger),
		sanitizer:  dataprocessing.NewSanitizer(logger),
		aggregator: analytics.NewAggregator(logger),
		csv:        exporter.NewCSVWriter(*outDir, logger),
		json:       exporter.NewJSONWriter(*outDir, logger),
		spec:       spec,
		logger:     logger,
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(maxConcurrentFiles)
	for _, file := range files {
		g.Go(func() error {
			return proc.processFile(ctx, file)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("processing complete",
		slog.Int("files", len(files)),
		slog.String("out", *outDir))
}

type processor struct {
	loader     *dataprocessing.Loader
	sanitizer  *dataprocessing.Sanitizer
	aggregator *analytics.Aggregator
	csv        *exporter.CSVWriter
	json       *exporter.JSONWriter
	spec       domain.FilterSpec
	logger     *slog.Logger
}

// processFile runs one workbook through the pipeline and writes its
// exports next to each other, named after the input file.
func (p *processor) processFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	wb, err := p.loader.Load(ctx, filepath.Base(path), file)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	p.sanitizer.Sanitize(ctx, wb)

	for _, warning := range wb.Warnings {
		p.logger.Warn("load warning",
			slog.String("file", filepath.Base(path)),
			slog.String("kind", string(warning.Kind)),
			slog.String("message", warning.Message))
	}

	sales := analytics.ApplyFilter(wb.Sales, p.spec)
	result := p.aggregator.Compute(ctx, sales)
	result.Series = p.aggregator.MonthlyRevenueByStoreType(sales)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := p.csv.WriteKPICSV(base+"_kpis.csv", result); err != nil {
		return fmt.Errorf("export KPIs for %s: %w", path, err)
	}
	if err := p.json.WriteKPIJSON(base+"_kpis.json", result); err != nil {
		return fmt.Errorf("export KPI JSON for %s: %w", path, err)
	}
	if err := p.csv.WriteTableCSV(base+"_ventas.csv", sales); err != nil {
		return fmt.Errorf("export sales for %s: %w", path, err)
	}

	p.logger.Info("workbook processed",
		slog.String("file", filepath.Base(path)),
		slog.Int("sales_rows", sales.RowCount()))

	return nil
}

// collectWorkbooks returns the explicit file arguments, or every .xlsx
// file in the input directory when none are given.
func collectWorkbooks(inDir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if (ext == ".xlsx" || ext == ".xlsm") && !strings.HasPrefix(name, "~$") {
			files = append(files, filepath.Join(inDir, name))
		}
	}
	return files, nil
}
