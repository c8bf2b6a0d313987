package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// TableKind identifies which logical workbook table a Table holds.
type TableKind string

const (
	TableProducts  TableKind = "products"
	TableTransfers TableKind = "transfers"
	TableSales     TableKind = "sales"
)

// CellKind tags the runtime type of a Cell.
type CellKind uint8

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellTime
)

// Cell is a single typed value in a Table column. A failed type coercion
// produces a null cell, never an error.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Tm   time.Time
}

// NullCell returns the null cell.
func NullCell() Cell { return Cell{Kind: CellNull} }

// StringCell returns a string-valued cell.
func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

// TimeCell returns a date-valued cell.
func TimeCell(t time.Time) Cell { return Cell{Kind: CellTime, Tm: t} }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// Number returns the numeric value and whether the cell is numeric.
func (c Cell) Number() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	return c.Num, true
}

// Time returns the date value and whether the cell holds a date.
func (c Cell) Time() (time.Time, bool) {
	if c.Kind != CellTime {
		return time.Time{}, false
	}
	return c.Tm, true
}

// Text returns a display string for the cell. Null cells render empty.
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return FormatNumber(c.Num)
	case CellTime:
		return c.Tm.Format("2006-01-02")
	default:
		return ""
	}
}

// MarshalJSON renders the cell as a bare JSON value (null, string, number
// or RFC 3339 date) so exported rows stay compact.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		return json.Marshal(c.Num)
	case CellTime:
		return json.Marshal(c.Tm.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// ColumnType is the declared type of a Table column.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnNumber ColumnType = "number"
	ColumnTime   ColumnType = "time"
)

// Column is a named, typed sequence of cells. All columns of a Table have
// the same length.
type Column struct {
	Name  string
	Type  ColumnType
	Cells []Cell
}

// Table is the column-oriented in-memory form of one workbook sheet after
// sanitization. MissingRequired lists required columns that were absent;
// KPIs depending on those columns must degrade instead of failing.
type Table struct {
	Kind             TableKind
	Columns          []Column
	MissingRequired  []string
	CoercionFailures map[string]int
}

// NewTable returns an empty table of the given kind.
func NewTable(kind TableKind) *Table {
	return &Table{Kind: kind, CoercionFailures: make(map[string]int)}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return t.RowCount() == 0 }

// Column returns the named column, or nil when absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.Column(name) != nil }

// Cell returns the cell at (row, column name). Out-of-range or unknown
// columns yield the null cell.
func (t *Table) Cell(row int, name string) Cell {
	col := t.Column(name)
	if col == nil || row < 0 || row >= len(col.Cells) {
		return NullCell()
	}
	return col.Cells[row]
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Select returns a new table of the same kind containing only the rows for
// which keep is true. The receiver is never mutated.
func (t *Table) Select(keep []bool) *Table {
	out := NewTable(t.Kind)
	out.MissingRequired = append(out.MissingRequired, t.MissingRequired...)
	for name, n := range t.CoercionFailures {
		out.CoercionFailures[name] = n
	}
	for _, col := range t.Columns {
		kept := Column{Name: col.Name, Type: col.Type}
		for i, cell := range col.Cells {
			if i < len(keep) && keep[i] {
				kept.Cells = append(kept.Cells, cell)
			}
		}
		out.Columns = append(out.Columns, kept)
	}
	return out
}

// DistinctStrings returns the sorted distinct non-empty string values of a
// column. An absent column yields nil.
func (t *Table) DistinctStrings(name string) []string {
	col := t.Column(name)
	if col == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var values []string
	for _, cell := range col.Cells {
		if cell.Kind != CellString || cell.Str == "" {
			continue
		}
		if _, ok := seen[cell.Str]; ok {
			continue
		}
		seen[cell.Str] = struct{}{}
		values = append(values, cell.Str)
	}
	sort.Strings(values)
	return values
}

// RecordCoercionFailure increments the per-column coercion failure counter.
func (t *Table) RecordCoercionFailure(column string) {
	if t.CoercionFailures == nil {
		t.CoercionFailures = make(map[string]int)
	}
	t.CoercionFailures[column]++
}

// MarkMissingRequired records a required column that was absent after
// sanitization.
func (t *Table) MarkMissingRequired(column string) {
	for _, name := range t.MissingRequired {
		if name == column {
			return
		}
	}
	t.MissingRequired = append(t.MissingRequired, column)
}

// IsColumnValid reports whether the named column exists and was not flagged
// as missing-required.
func (t *Table) IsColumnValid(name string) bool {
	for _, missing := range t.MissingRequired {
		if missing == name {
			return false
		}
	}
	return t.HasColumn(name)
}
