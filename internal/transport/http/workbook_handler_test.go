package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/services"
	"truccoanalytics/internal/session"
	"truccoanalytics/internal/shared/testutil"
)

func newTestRouter(t *testing.T, maxFileSize int64) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	store := session.NewStore(time.Hour, 10, logger)
	service := services.NewDataService(store, nil, logger)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	handler := NewWorkbookHandler(service, nil, maxFileSize, logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/workbooks", handler.Routes())
	return r
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func uploadWorkbook(t *testing.T, router chi.Router) *services.UploadResult {
	t.Helper()

	body, contentType := multipartUpload(t, "ventas.xlsx", testutil.FullWorkbook(t))
	req := httptest.NewRequest(http.MethodPost, "/api/workbooks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result services.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return &result
}

func TestWorkbookHandler_Upload(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 4, result.RowCounts[services.TableNameSales])
	assert.Equal(t, []string{"V25"}, result.Filters.Seasons)
}

func TestWorkbookHandler_Upload_MissingFile(t *testing.T) {
	router := newTestRouter(t, 50<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/workbooks", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestWorkbookHandler_Upload_WrongExtension(t *testing.T) {
	router := newTestRouter(t, 50<<20)

	body, contentType := multipartUpload(t, "ventas.pdf", []byte("not a workbook"))
	req := httptest.NewRequest(http.MethodPost, "/api/workbooks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkbookHandler_Upload_Unreadable(t *testing.T) {
	router := newTestRouter(t, 50<<20)

	body, contentType := multipartUpload(t, "ventas.xlsx", []byte("not a workbook"))
	req := httptest.NewRequest(http.MethodPost, "/api/workbooks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/workbook/unreadable")
}

func TestWorkbookHandler_Upload_PayloadTooLarge(t *testing.T) {
	router := newTestRouter(t, 128)

	body, contentType := multipartUpload(t, "ventas.xlsx", testutil.FullWorkbook(t))
	req := httptest.NewRequest(http.MethodPost, "/api/workbooks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestWorkbookHandler_GetFilters(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/workbooks/"+result.SessionID+"/filters", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "V25")
	assert.Contains(t, rec.Body.String(), "CAMISETAS")
}

func TestWorkbookHandler_GetFilters_UnknownSession(t *testing.T) {
	router := newTestRouter(t, 50<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/workbooks/does-not-exist/filters", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/session/not-found")
}

func TestWorkbookHandler_GetDashboard(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	req := httptest.NewRequest(http.MethodGet,
		"/api/workbooks/"+result.SessionID+"/dashboard?section=resumen&family=CAMISETAS", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dash services.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, services.SectionSummary, dash.Section)
	assert.Equal(t, 2, dash.RowCount)
	assert.NotEmpty(t, dash.KPIs)
}

func TestWorkbookHandler_GetDashboard_DefaultSection(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/workbooks/"+result.SessionID+"/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dash services.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, services.SectionSummary, dash.Section)
}

func TestWorkbookHandler_GetDashboard_InvalidSection(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	req := httptest.NewRequest(http.MethodGet,
		"/api/workbooks/"+result.SessionID+"/dashboard?section=finanzas", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkbookHandler_ExportTableCSV(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	req := httptest.NewRequest(http.MethodGet,
		"/api/workbooks/"+result.SessionID+"/export/ventas.csv?family=CAMISETAS", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ventas.csv")

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}), "CSV starts with UTF-8 BOM")
	assert.Contains(t, string(body), "TRUCCO MADRID")
	assert.NotContains(t, string(body), "ECI LISBOA", "family filter applies to export")
}

func TestWorkbookHandler_ExportTableCSV_UnknownTable(t *testing.T) {
	router := newTestRouter(t, 50<<20)
	result := uploadWorkbook(t, router)

	req := httptest.NewRequest(http.MethodGet,
		"/api/workbooks/"+result.SessionID+"/export/inventario.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/table/not-found")
}
