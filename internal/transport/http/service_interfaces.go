package http

import (
	"context"
	"io"

	"truccoanalytics/internal/prediction"
	"truccoanalytics/internal/services"
	"truccoanalytics/pkg/contracts/domain"
)

// DataServiceInterface is the service surface the workbook handler needs.
type DataServiceInterface interface {
	UploadWorkbook(ctx context.Context, filename string, r io.Reader) (*services.UploadResult, error)
	Filters(ctx context.Context, sessionID string) (domain.FilterOptions, error)
	DashboardSection(ctx context.Context, sessionID, section string, spec domain.FilterSpec) (*services.Dashboard, error)
	FilteredTable(ctx context.Context, sessionID, table string, spec domain.FilterSpec) (*domain.Table, error)
	Summary(ctx context.Context, sessionID string, spec domain.FilterSpec) (*domain.KPIResult, error)
}

// PredictionServiceInterface is the service surface the prediction handler
// needs.
type PredictionServiceInterface interface {
	Predict(ctx context.Context, req prediction.Request) prediction.Response
}

// EventBroadcaster pushes live events to connected dashboard clients.
type EventBroadcaster interface {
	BroadcastDatasetLoaded(ctx context.Context, sessionID string, payload any)
	BroadcastKPIRefreshed(ctx context.Context, sessionID string, payload any)
}

// HealthServiceInterface is the service surface the health handler needs.
type HealthServiceInterface interface {
	Health(ctx context.Context) services.HealthStatus
}
