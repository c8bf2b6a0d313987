// Package exporter renders tables and KPI results to CSV and JSON, both
// as files for the batch processor and as streams for HTTP downloads.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"truccoanalytics/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes CSV files under a base exports directory.
type CSVWriter struct {
	exportsDir string
	logger     *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at the given directory.
func NewCSVWriter(exportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{exportsDir: exportsDir, logger: logger}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file under the exports directory.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteTableCSV writes a table as a CSV file with a BOM prefix.
func (w *CSVWriter) WriteTableCSV(filePath string, table *domain.Table) error {
	headers, records := TableRecords(table)
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteKPICSV writes a KPI result as a CSV file with a BOM prefix.
func (w *CSVWriter) WriteKPICSV(filePath string, result *domain.KPIResult) error {
	headers, records := KPIRecords(result)
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.exportsDir, filePath)
}

// StreamTableCSV writes a table as CSV to an arbitrary writer, used by the
// HTTP download handler.
func StreamTableCSV(w io.Writer, table *domain.Table, withBOM bool) error {
	if withBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	headers, records := TableRecords(table)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// TableRecords flattens a table into CSV headers and records. Null cells
// render as empty strings, dates as ISO dates.
func TableRecords(table *domain.Table) ([]string, [][]string) {
	if table == nil || len(table.Columns) == 0 {
		return nil, nil
	}

	headers := table.ColumnNames()
	records := make([][]string, 0, table.RowCount())
	for row := 0; row < table.RowCount(); row++ {
		record := make([]string, len(table.Columns))
		for col := range table.Columns {
			record[col] = table.Columns[col].Cells[row].Text()
		}
		records = append(records, record)
	}
	return headers, records
}

// KPIRecords flattens a KPI result into CSV headers and records.
// Unavailable KPIs keep their row with an empty value and the reason.
func KPIRecords(result *domain.KPIResult) ([]string, [][]string) {
	headers := []string{"kpi", "value", "unit", "available", "reason"}
	if result == nil {
		return headers, nil
	}

	records := make([][]string, 0, len(result.KPIs))
	for _, k := range result.KPIs {
		value := ""
		if k.Available {
			value = domain.FormatNumber(k.Value)
		}
		records = append(records, []string{
			k.Name, value, k.Unit, strconv.FormatBool(k.Available), k.Reason,
		})
	}
	return headers, records
}
