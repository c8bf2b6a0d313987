package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/shared/testutil"
)

func TestFileValidator_ValidateUploadName(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "valid xlsx", file: "ventas 23 24 25.xlsx"},
		{name: "valid xlsm", file: "ventas.xlsm"},
		{name: "uppercase extension", file: "VENTAS.XLSX"},
		{name: "wrong extension", file: "ventas.pdf", wantErr: true},
		{name: "empty", file: "", wantErr: true},
		{name: "path traversal", file: "../ventas.xlsx", wantErr: true},
		{name: "path separator", file: "dir/ventas.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUploadName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateWorkbookHead(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	assert.NoError(t, v.ValidateWorkbookHead(testutil.FullWorkbook(t)))
	assert.Error(t, v.ValidateWorkbookHead([]byte("not a workbook")))
	assert.Error(t, v.ValidateWorkbookHead(nil))
}

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ventas.xlsx"), testutil.FullWorkbook(t), 0644))

	assert.NoError(t, v.ValidateInputDirectory(dir))
	assert.Error(t, v.ValidateInputDirectory(filepath.Join(dir, "missing")))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "exports", "nested")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	_, err := os.Stat(dir)
	assert.NoError(t, err)
}
