package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/pkg/contracts/domain"
)

// numericThreshold is the share of non-empty cells that must parse as
// numbers for a column to be typed numeric.
const numericThreshold = 0.8

// Loader reads an uploaded workbook into the three logical tables.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load parses a spreadsheet from r. An unreadable payload is fatal; every
// other problem (missing sheets, missing columns, bad cells) is collected as
// a warning on the returned workbook.
func (l *Loader) Load(ctx context.Context, filename string, r io.Reader) (*domain.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", filename), err)
	}
	defer f.Close()

	wb := &domain.Workbook{
		Filename: filename,
		LoadedAt: time.Now(),
	}

	for _, kind := range []domain.TableKind{domain.TableProducts, domain.TableTransfers, domain.TableSales} {
		table, warnings := l.loadTable(ctx, f, kind)
		for _, w := range warnings {
			wb.Warn(w)
		}
		switch kind {
		case domain.TableProducts:
			wb.Products = table
		case domain.TableTransfers:
			wb.Transfers = table
		case domain.TableSales:
			wb.Sales = table
		}
	}

	l.logger.InfoContext(ctx, "workbook loaded",
		slog.String("filename", filename),
		slog.Int("products_rows", wb.Products.RowCount()),
		slog.Int("transfers_rows", wb.Transfers.RowCount()),
		slog.Int("sales_rows", wb.Sales.RowCount()),
		slog.Int("warnings", len(wb.Warnings)))

	return wb, nil
}

// loadTable resolves the sheet for a table kind and builds the typed table.
// An absent sheet yields an empty table plus a warning, never an error.
func (l *Loader) loadTable(ctx context.Context, f *excelize.File, kind domain.TableKind) (*domain.Table, []domain.LoadWarning) {
	var warnings []domain.LoadWarning

	sheet := resolveSheet(f, kind)
	if sheet == "" {
		warnings = append(warnings, domain.LoadWarning{
			Kind:    domain.WarningMissingSheet,
			Table:   kind,
			Subject: sheetAliases[kind][0],
			Message: fmt.Sprintf("no sheet found for %s table", kind),
		})
		return domain.NewTable(kind), warnings
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		warnings = append(warnings, domain.LoadWarning{
			Kind:    domain.WarningMissingSheet,
			Table:   kind,
			Subject: sheet,
			Message: fmt.Sprintf("failed to read sheet %s: %v", sheet, err),
		})
		return domain.NewTable(kind), warnings
	}

	table := buildTable(kind, rows)

	l.logger.DebugContext(ctx, "sheet parsed",
		slog.String("sheet", sheet),
		slog.String("table", string(kind)),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", len(table.Columns)))

	for column, count := range table.CoercionFailures {
		warnings = append(warnings, domain.LoadWarning{
			Kind:    domain.WarningCoercion,
			Table:   kind,
			Subject: column,
			Count:   count,
			Message: fmt.Sprintf("%d cell(s) in column %q could not be coerced and were nulled", count, column),
		})
	}

	return table, warnings
}

// resolveSheet finds the sheet for a table kind by alias, case-insensitive
// on the trimmed name.
func resolveSheet(f *excelize.File, kind domain.TableKind) string {
	for _, name := range f.GetSheetList() {
		trimmed := strings.TrimSpace(name)
		for _, alias := range sheetAliases[kind] {
			if strings.EqualFold(trimmed, alias) {
				return name
			}
		}
	}
	return ""
}

// buildTable turns a raw string grid into a typed column-oriented table.
// The first non-empty row is the header; fully empty rows and columns are
// dropped; column types follow the numeric-majority heuristic except for
// the known date columns.
func buildTable(kind domain.TableKind, rows [][]string) *domain.Table {
	table := domain.NewTable(kind)

	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return table
	}

	headers := dedupeHeaders(rows[headerIdx])

	// Collect data rows, dropping fully empty ones.
	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		data = append(data, row)
	}

	for col, name := range headers {
		values := make([]string, len(data))
		empty := true
		for i, row := range data {
			if col < len(row) {
				values[i] = strings.TrimSpace(row[col])
			}
			if values[i] != "" {
				empty = false
			}
		}
		if name == "" && empty {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("Columna %d", col+1)
		}
		if empty {
			// Fully empty columns carry no information.
			continue
		}

		table.Columns = append(table.Columns, buildColumn(table, name, values))
	}

	return table
}

// buildColumn infers the column type and coerces every cell. Failed
// coercions become null cells and are counted, never errors.
func buildColumn(table *domain.Table, name string, values []string) domain.Column {
	colType := inferType(name, values)

	col := domain.Column{Name: name, Type: colType, Cells: make([]domain.Cell, len(values))}
	for i, raw := range values {
		if raw == "" {
			col.Cells[i] = domain.NullCell()
			continue
		}
		switch colType {
		case domain.ColumnNumber:
			if n, ok := parseNumber(raw); ok {
				col.Cells[i] = domain.NumberCell(n)
			} else {
				col.Cells[i] = domain.NullCell()
				table.RecordCoercionFailure(name)
			}
		case domain.ColumnTime:
			if t, ok := parseDate(raw); ok {
				col.Cells[i] = domain.TimeCell(t)
			} else {
				col.Cells[i] = domain.NullCell()
				table.RecordCoercionFailure(name)
			}
		default:
			col.Cells[i] = domain.StringCell(raw)
		}
	}
	return col
}

// inferType types known date columns as time and applies the 80% numeric
// majority heuristic to everything else.
func inferType(name string, values []string) domain.ColumnType {
	if dateColumns[name] {
		return domain.ColumnTime
	}

	nonEmpty, numeric := 0, 0
	for _, v := range values {
		if v == "" {
			continue
		}
		nonEmpty++
		if _, ok := parseNumber(v); ok {
			numeric++
		}
	}
	if nonEmpty > 0 && float64(numeric) >= numericThreshold*float64(nonEmpty) {
		return domain.ColumnNumber
	}
	return domain.ColumnString
}

// dedupeHeaders trims headers and disambiguates duplicates with a numeric
// suffix.
func dedupeHeaders(row []string) []string {
	seen := make(map[string]int)
	headers := make([]string, len(row))
	for i, h := range row {
		name := strings.TrimSpace(h)
		if name == "" {
			headers[i] = ""
			continue
		}
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%s (%d)", name, seen[name])
		}
		headers[i] = name
	}
	return headers
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts plain floats plus the Spanish thousands/decimal
// notation ("1.234,56").
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")

	if strings.Contains(s, ",") {
		// Comma decimal; dots before it are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// dateLayouts are tried in order; day-first layouts come first to match the
// upstream workbook convention.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
