package middleware

import (
	"log/slog"
	"testing"

	apierrors "truccoanalytics/internal/errors"
)

func newTestErrorHandler(t *testing.T, logger *slog.Logger) *apierrors.ErrorHandler {
	t.Helper()
	return apierrors.NewErrorHandler(logger, false)
}
