package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "truccoanalytics/internal/errors"
)

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	service      HealthServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HealthHandler {
	return &HealthHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "health_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/healthz.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Health(r.Context()))
}
