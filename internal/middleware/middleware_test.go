package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"truccoanalytics/internal/shared/testutil"
)

func TestRequestID(t *testing.T) {
	t.Run("generates new request ID", func(t *testing.T) {
		var capturedID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/test", nil)
		handler.ServeHTTP(w, r)

		assert.NotEmpty(t, capturedID)
		assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
	})

	t.Run("preserves incoming request ID", func(t *testing.T) {
		var capturedID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/test", nil)
		r.Header.Set("X-Request-ID", "upstream-id")
		handler.ServeHTTP(w, r)

		assert.Equal(t, "upstream-id", capturedID)
	})
}

func TestStructuredLogger(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	handler := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/workbooks", nil)
	handler.ServeHTTP(w, r)

	assert.True(t, logs.ContainsMessage("request started"))
	assert.True(t, logs.ContainsMessage("request completed"))
}

func TestRecoverer(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestRateLimiter(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	rl := NewRateLimiter(1, 1, logger)

	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(CORSConfig{
		AllowedOrigins: []string{"http://localhost:8080"},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("OPTIONS", "/api/workbooks", nil)
	r.Header.Set("Origin", "http://localhost:8080")
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidationMiddleware_InvalidJSON(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := newTestErrorHandler(t, logger)
	vm := NewValidationMiddleware(logger, errorHandler)

	handler := vm.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/predictions", strings.NewReader("{not json"))
	r.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationMiddleware_MultipartBypass(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := newTestErrorHandler(t, logger)
	vm := NewValidationMiddleware(logger, errorHandler)

	handler := vm.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/workbooks", strings.NewReader("binary"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	qv := NewQueryParamValidator(logger, newTestErrorHandler(t, logger))

	tests := []struct {
		name      string
		query     string
		wantValue string
		wantOK    bool
	}{
		{"empty uses default", "", "resumen", true},
		{"valid section", "section=producto", "producto", true},
		{"invalid section", "section=bogus", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/api/dashboard?"+tt.query, nil)

			value, ok := qv.ValidateEnum(w, r, "section",
				[]string{"resumen", "descripciones", "geografico", "producto", "pvp"}, "resumen")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}
