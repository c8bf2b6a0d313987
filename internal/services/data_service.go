package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"truccoanalytics/internal/analytics"
	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/internal/descriptions"
	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/infrastructure"
	"truccoanalytics/internal/session"
	"truccoanalytics/pkg/contracts/domain"
)

// Dashboard section identifiers accepted by DashboardSection.
const (
	SectionSummary      = "resumen"
	SectionDescriptions = "descripciones"
	SectionGeography    = "geografico"
	SectionProduct      = "producto"
	SectionPrice        = "pvp"
)

// descriptionLimit caps the number of values per attribute series.
const descriptionLimit = 10

// Exportable table names, matching the sheet roles of the upload.
const (
	TableNameSales     = "ventas"
	TableNameProducts  = "productos"
	TableNameTransfers = "traspasos"
)

// UploadResult is the response payload of a successful workbook upload.
type UploadResult struct {
	SessionID string               `json:"session_id"`
	Filename  string               `json:"filename"`
	RowCounts map[string]int       `json:"row_counts"`
	Warnings  []domain.LoadWarning `json:"warnings,omitempty"`
	Filters   domain.FilterOptions `json:"filters"`
	LoadedAt  time.Time            `json:"loaded_at"`
}

// Dashboard is one section of the dashboard for a filtered dataset.
type Dashboard struct {
	Section     string                 `json:"section"`
	Filter      domain.FilterSpec      `json:"filter"`
	KPIs        []domain.KPIValue      `json:"kpis,omitempty"`
	Series      []domain.GroupedSeries `json:"series,omitempty"`
	RowCount    int                    `json:"row_count"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// DataService orchestrates the pipeline: load, sanitize, store in a
// session, then serve filtered dashboards and exports from it.
type DataService struct {
	loader     *dataprocessing.Loader
	sanitizer  *dataprocessing.Sanitizer
	aggregator *analytics.Aggregator
	analyzer   *descriptions.Analyzer
	store      *session.Store
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
}

// NewDataService creates a data service over the given session store.
// Metrics may be nil, in which case pipeline metrics are not recorded.
func NewDataService(store *session.Store, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		loader:     dataprocessing.NewLoader(logger),
		sanitizer:  dataprocessing.NewSanitizer(logger),
		aggregator: analytics.NewAggregator(logger),
		analyzer:   descriptions.NewAnalyzer(logger),
		store:      store,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "data_service")),
	}
}

// UploadWorkbook runs the ingestion pipeline on an uploaded spreadsheet and
// registers the resulting dataset under a new session.
func (ds *DataService) UploadWorkbook(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	start := time.Now()

	wb, err := ds.loader.Load(ctx, filename, r)
	if err != nil {
		ds.recordLoad(ctx, start, "error")
		return nil, err
	}
	ds.sanitizer.Sanitize(ctx, wb)

	filters := analytics.FilterOptions(wb.Sales)

	before := ds.store.Count()
	id := ds.store.Put(ctx, wb, filters)
	ds.recordLoad(ctx, start, "ok")
	ds.recordSessions(ctx, ds.store.Count()-before)
	ds.recordCoercions(ctx, wb)

	ds.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("session_id", id),
		slog.String("filename", filename),
		slog.Int("sales_rows", wb.Sales.RowCount()),
		slog.Int("warnings", len(wb.Warnings)),
		slog.Duration("duration", time.Since(start)))

	return &UploadResult{
		SessionID: id,
		Filename:  filename,
		RowCounts: map[string]int{
			TableNameProducts:  wb.Products.RowCount(),
			TableNameTransfers: wb.Transfers.RowCount(),
			TableNameSales:     wb.Sales.RowCount(),
		},
		Warnings: wb.Warnings,
		Filters:  filters,
		LoadedAt: wb.LoadedAt,
	}, nil
}

// Filters returns the filter options of a session's dataset.
func (ds *DataService) Filters(ctx context.Context, sessionID string) (domain.FilterOptions, error) {
	dataset, err := ds.store.Get(ctx, sessionID)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return dataset.Filters, nil
}

// DashboardSection assembles one dashboard section over the filtered sales
// table of a session. KPIs are recomputed on every call; nothing is cached
// across filter changes.
func (ds *DataService) DashboardSection(ctx context.Context, sessionID, section string, spec domain.FilterSpec) (*Dashboard, error) {
	dataset, err := ds.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sales := analytics.ApplyFilter(dataset.Workbook.Sales, spec)

	dash := &Dashboard{
		Section:     section,
		Filter:      spec,
		RowCount:    sales.RowCount(),
		GeneratedAt: time.Now(),
	}

	switch section {
	case SectionSummary:
		result := ds.aggregator.Compute(ctx, sales)
		dash.KPIs = result.KPIs
		dash.Series = ds.aggregator.MonthlyRevenueByStoreType(sales)
	case SectionDescriptions:
		dash.Series = ds.analyzer.AttributeFrequencies(ctx, dataset.Workbook.Products, descriptionLimit)
	case SectionGeography:
		dash.Series = append(dash.Series, ds.aggregator.TopStoresByProfit(sales, analytics.TopStores))
		dash.Series = append(dash.Series, ds.aggregator.MonthlyRevenueByStoreType(sales)...)
	case SectionProduct:
		dash.Series = append(dash.Series, ds.aggregator.UnitsBySize(sales))
		dash.Series = append(dash.Series, ds.aggregator.TopFamiliesByProfit(sales, analytics.TopFamilies))
	case SectionPrice:
		dash.Series = ds.aggregator.PriceBucketBreakdown(sales)
	default:
		return nil, apierrors.ErrValidation("section", "unknown dashboard section: "+section)
	}

	if ds.metrics != nil {
		ds.metrics.KPIComputationsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("section", section)))
	}

	return dash, nil
}

// FilteredTable returns one of the dataset's tables by its export name.
// The filter spec applies to the sales table only; products and transfers
// carry no season or family dimensions.
func (ds *DataService) FilteredTable(ctx context.Context, sessionID, table string, spec domain.FilterSpec) (*domain.Table, error) {
	dataset, err := ds.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch table {
	case TableNameSales:
		return analytics.ApplyFilter(dataset.Workbook.Sales, spec), nil
	case TableNameProducts:
		return dataset.Workbook.Products, nil
	case TableNameTransfers:
		return dataset.Workbook.Transfers, nil
	default:
		return nil, apierrors.ErrTableNotFound
	}
}

// Summary computes the full KPI result for a session, used by exports and
// the batch processor.
func (ds *DataService) Summary(ctx context.Context, sessionID string, spec domain.FilterSpec) (*domain.KPIResult, error) {
	dataset, err := ds.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sales := analytics.ApplyFilter(dataset.Workbook.Sales, spec)
	result := ds.aggregator.Compute(ctx, sales)
	result.Series = ds.aggregator.MonthlyRevenueByStoreType(sales)
	return result, nil
}

func (ds *DataService) recordLoad(ctx context.Context, start time.Time, status string) {
	if ds.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	ds.metrics.WorkbookLoadsTotal.Add(ctx, 1, attrs)
	ds.metrics.WorkbookLoadDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (ds *DataService) recordSessions(ctx context.Context, delta int) {
	if ds.metrics == nil || delta == 0 {
		return
	}
	ds.metrics.ActiveSessions.Add(ctx, int64(delta))
}

func (ds *DataService) recordCoercions(ctx context.Context, wb *domain.Workbook) {
	if ds.metrics == nil {
		return
	}
	for _, kind := range []domain.TableKind{domain.TableProducts, domain.TableTransfers, domain.TableSales} {
		table := wb.Table(kind)
		if table == nil {
			continue
		}
		for column, count := range table.CoercionFailures {
			ds.metrics.CoercionFailures.Add(ctx, int64(count),
				metric.WithAttributes(
					attribute.String("table", string(kind)),
					attribute.String("column", column)))
		}
	}
}
