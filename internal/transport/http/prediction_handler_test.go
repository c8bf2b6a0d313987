package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/prediction"
	"truccoanalytics/internal/shared/testutil"
)

func newPredictionRouter(t *testing.T) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	handler := NewPredictionHandler(prediction.NewServiceWithSeed(logger, 7), logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/predictions", handler.Routes())
	return r
}

func TestPredictionHandler_Predict(t *testing.T) {
	router := newPredictionRouter(t)

	body := `{"date":"2025-06-01","family":"CAMISETAS","store":"TRUCCO MADRID"}`
	req := httptest.NewRequest(http.MethodPost, "/api/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp prediction.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CAMISETAS", resp.Family)
	assert.True(t, resp.Mock)
	assert.GreaterOrEqual(t, resp.PredictedUnits, 100)
	assert.LessOrEqual(t, resp.PredictedUnits, 1000)
}

func TestPredictionHandler_Predict_ValidationFailure(t *testing.T) {
	router := newPredictionRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing family", body: `{"date":"2025-06-01","store":"TRUCCO MADRID"}`},
		{name: "bad date format", body: `{"date":"01/06/2025","family":"CAMISETAS","store":"TRUCCO MADRID"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/predictions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
		})
	}
}

func TestPredictionHandler_Predict_MalformedJSON(t *testing.T) {
	router := newPredictionRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/predictions", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
