package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestAPIError_Render(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
	}{
		{
			name:       "session not found renders 404",
			err:        ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unreadable workbook renders 422",
			err:        ErrUnreadableWorkbook,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "payload too large renders 413",
			err:        ErrPayloadTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/test", nil)

			require.NoError(t, tt.err.Render(w, r))
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
		})
	}
}

func TestErrWorkbookParse(t *testing.T) {
	cause := fmt.Errorf("zip: not a valid zip file")
	err := ErrWorkbookParse(cause)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "UNREADABLE_WORKBOOK", err.ErrorCode)
	assert.Equal(t, cause.Error(), err.Details)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "season", Message: "unknown season"},
		{Field: "family", Message: "unknown family"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestAppError(t *testing.T) {
	t.Run("error message with cause", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		err := NewStorageError("failed to persist export", cause)

		assert.Contains(t, err.Error(), "STORAGE")
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("error message without cause", func(t *testing.T) {
		err := NewNotFoundError("session")
		assert.Equal(t, "[NOT_FOUND] session not found", err.Error())
	})

	t.Run("with context", func(t *testing.T) {
		err := NewParsingError("unreadable sheet", nil).
			WithContext("sheet", "Compra")
		assert.Equal(t, "Compra", err.Context["sheet"])
	})
}
