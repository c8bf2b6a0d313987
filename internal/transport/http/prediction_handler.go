package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/prediction"
)

// PredictionHandler handles demand prediction requests.
type PredictionHandler struct {
	service      PredictionServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPredictionHandler creates a prediction handler.
func NewPredictionHandler(service PredictionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PredictionHandler {
	return &PredictionHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "prediction_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the prediction routes.
func (h *PredictionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Predict)
	return r
}

// Predict handles POST /api/predictions.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req prediction.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationErrorsToAPI(err))
		return
	}

	resp := h.service.Predict(r.Context(), req)
	render.JSON(w, r, resp)
}

// validationErrorsToAPI converts validator failures into the shared
// validation error payload.
func validationErrorsToAPI(err error) *apierrors.APIError {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	fields := make([]apierrors.ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: "failed validation rule: " + fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
