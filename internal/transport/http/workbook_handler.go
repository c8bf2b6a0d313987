package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/exporter"
	"truccoanalytics/internal/middleware"
	"truccoanalytics/internal/services"
	"truccoanalytics/internal/validation"
	"truccoanalytics/pkg/contracts/domain"
)

// dashboardSections are the section values accepted by the dashboard
// endpoint.
var dashboardSections = []string{
	services.SectionSummary,
	services.SectionDescriptions,
	services.SectionGeography,
	services.SectionProduct,
	services.SectionPrice,
}

// WorkbookHandler handles workbook upload and query requests.
type WorkbookHandler struct {
	service      DataServiceInterface
	broadcaster  EventBroadcaster
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *middleware.QueryParamValidator
	files        *validation.FileValidator
	maxFileSize  int64
}

// NewWorkbookHandler creates a workbook handler. The broadcaster may be nil
// when the server runs without the websocket hub.
func NewWorkbookHandler(service DataServiceInterface, broadcaster EventBroadcaster, maxFileSize int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WorkbookHandler {
	return &WorkbookHandler{
		service:      service,
		broadcaster:  broadcaster,
		logger:       logger.With(slog.String("component", "workbook_handler")),
		errorHandler: errorHandler,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		files:        validation.NewFileValidator(logger),
		maxFileSize:  maxFileSize,
	}
}

// Routes returns the workbook routes.
func (h *WorkbookHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)

	r.Route("/{sessionID}", func(r chi.Router) {
		r.Use(h.SessionCtx)
		r.Get("/filters", h.GetFilters)
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/export/{table}.csv", h.ExportTableCSV)
	})

	return r
}

// SessionCtx validates the session ID path parameter.
func (h *WorkbookHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" || len(sessionID) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("session_id", "Invalid session ID"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/workbooks. It accepts one xlsx file as the
// "file" field of a multipart form.
func (h *WorkbookHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		// The multipart reader does not always wrap the limit error, so
		// fall back to matching its message.
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Multipart field 'file' is required"))
		return
	}
	defer file.Close()

	if err := h.files.ValidateUploadName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	head := make([]byte, 4)
	n, _ := io.ReadFull(file, head)
	if err := h.files.ValidateWorkbookHead(head[:n]); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrWorkbookParse(err))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "workbook upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	result, err := h.service.UploadWorkbook(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastDatasetLoaded(r.Context(), result.SessionID, map[string]any{
			"filename":   result.Filename,
			"row_counts": result.RowCounts,
			"warnings":   len(result.Warnings),
		})
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// GetFilters handles GET /api/workbooks/{sessionID}/filters.
func (h *WorkbookHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	filters, err := h.service.Filters(r.Context(), sessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, filters)
}

// GetDashboard handles GET /api/workbooks/{sessionID}/dashboard.
func (h *WorkbookHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	section, ok := h.query.ValidateEnum(w, r, "section", dashboardSections, services.SectionSummary)
	if !ok {
		return
	}
	spec := filterSpecFromQuery(r)

	dash, err := h.service.DashboardSection(r.Context(), sessionID, section, spec)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastKPIRefreshed(r.Context(), sessionID, map[string]any{
			"section":   dash.Section,
			"row_count": dash.RowCount,
		})
	}

	render.JSON(w, r, dash)
}

// ExportTableCSV handles GET /api/workbooks/{sessionID}/export/{table}.csv.
func (h *WorkbookHandler) ExportTableCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	tableName := chi.URLParam(r, "table")
	spec := filterSpecFromQuery(r)

	table, err := h.service.FilteredTable(r.Context(), sessionID, tableName, spec)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tableName+".csv"))

	if err := exporter.StreamTableCSV(w, table, true); err != nil {
		// Headers already sent; log and give up on this response.
		h.logger.ErrorContext(r.Context(), "CSV export failed mid-stream",
			slog.String("session_id", sessionID),
			slog.String("table", tableName),
			slog.String("error", err.Error()))
	}
}

// filterSpecFromQuery reads repeatable season and family query parameters.
func filterSpecFromQuery(r *http.Request) domain.FilterSpec {
	q := r.URL.Query()
	return domain.FilterSpec{
		Seasons:  dropEmpty(q["season"]),
		Families: dropEmpty(q["family"]),
	}
}

func dropEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
