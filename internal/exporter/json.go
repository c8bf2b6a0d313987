package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"truccoanalytics/pkg/contracts/domain"
)

// JSONWriter writes JSON export files under a base exports directory.
type JSONWriter struct {
	exportsDir string
	logger     *slog.Logger
}

// NewJSONWriter creates a JSON writer rooted at the given directory.
func NewJSONWriter(exportsDir string, logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{exportsDir: exportsDir, logger: logger}
}

// WriteKPIJSON writes a KPI result as an indented JSON file.
func (w *JSONWriter) WriteKPIJSON(filePath string, result *domain.KPIResult) error {
	return w.write(filePath, result)
}

// WriteTableJSON writes a table as a JSON array of row objects.
func (w *JSONWriter) WriteTableJSON(filePath string, table *domain.Table) error {
	return w.write(filePath, TableRows(table))
}

func (w *JSONWriter) write(filePath string, payload any) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.exportsDir, filePath)
	}

	w.logger.Info("writing JSON file", slog.String("path", fullPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return EncodeJSON(file, payload)
}

// EncodeJSON writes an indented JSON document to the writer.
func EncodeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// TableRows converts a table into an ordered slice of row maps keyed by
// column name, the shape consumed by JSON exports.
func TableRows(table *domain.Table) []map[string]domain.Cell {
	if table == nil || len(table.Columns) == 0 {
		return []map[string]domain.Cell{}
	}

	rows := make([]map[string]domain.Cell, 0, table.RowCount())
	for row := 0; row < table.RowCount(); row++ {
		out := make(map[string]domain.Cell, len(table.Columns))
		for col := range table.Columns {
			out[table.Columns[col].Name] = table.Columns[col].Cells[row]
		}
		rows = append(rows, out)
	}
	return rows
}
