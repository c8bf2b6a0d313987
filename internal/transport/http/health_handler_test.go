package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/services"
	"truccoanalytics/internal/shared/testutil"
)

func TestHealthHandler_GetHealth(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	handler := NewHealthHandler(services.NewHealthService("test", nil, nil, logger), logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/healthz", handler.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "test", status.Version)
}
