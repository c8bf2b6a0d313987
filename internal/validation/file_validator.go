// Package validation checks workbook files before the pipeline touches
// them: upload names and magic bytes on the HTTP path, directories on the
// batch path.
package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// xlsxMagic is the ZIP local file header; xlsx and xlsm files are ZIP
// containers.
var xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// allowedExtensions lists the spreadsheet extensions accepted for upload.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// FileValidator validates workbook files and processing directories.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateUploadName checks that an uploaded filename is a plain
// spreadsheet name without path components.
func (v *FileValidator) ValidateUploadName(name string) error {
	if name == "" {
		return fmt.Errorf("filename is empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("filename %q contains path components", name)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported file type %q, expected .xlsx", ext)
	}
	return nil
}

// ValidateWorkbookHead checks the first bytes of an upload against the
// xlsx container signature. A wrong extension renamed to .xlsx fails here
// instead of deep inside the parser.
func (v *FileValidator) ValidateWorkbookHead(head []byte) error {
	if len(head) < len(xlsxMagic) || !bytes.HasPrefix(head, xlsxMagic) {
		return fmt.Errorf("file does not look like an xlsx workbook")
	}
	return nil
}

// ValidateInputDirectory validates that the input directory exists and
// logs how many workbooks it holds.
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	v.logger.Info("input directory validated",
		slog.String("directory", dir),
		slog.Int("workbooks_found", len(matches)))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists and is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
