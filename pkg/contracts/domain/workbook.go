package domain

import "time"

// WarningKind classifies the non-fatal problems found while loading and
// sanitizing a workbook. Only an unreadable file is fatal (a ParseError);
// everything here degrades gracefully downstream.
type WarningKind string

const (
	WarningMissingSheet  WarningKind = "missing_sheet"
	WarningMissingColumn WarningKind = "missing_column"
	WarningCoercion      WarningKind = "coercion_failures"
)

// LoadWarning is one non-fatal ingestion problem surfaced to the caller.
type LoadWarning struct {
	Kind    WarningKind `json:"kind"`
	Table   TableKind   `json:"table"`
	Subject string      `json:"subject"`
	Count   int         `json:"count,omitempty"`
	Message string      `json:"message"`
}

// Workbook holds the three logical tables parsed from one uploaded
// spreadsheet, together with the warnings gathered while loading it.
// A Workbook is created per upload and owned by exactly one session.
type Workbook struct {
	Filename  string        `json:"filename"`
	Products  *Table        `json:"-"`
	Transfers *Table        `json:"-"`
	Sales     *Table        `json:"-"`
	Warnings  []LoadWarning `json:"warnings,omitempty"`
	LoadedAt  time.Time     `json:"loaded_at"`
}

// Table returns the table of the given kind, or nil for an unknown kind.
func (w *Workbook) Table(kind TableKind) *Table {
	switch kind {
	case TableProducts:
		return w.Products
	case TableTransfers:
		return w.Transfers
	case TableSales:
		return w.Sales
	default:
		return nil
	}
}

// Warn appends a load warning.
func (w *Workbook) Warn(warning LoadWarning) {
	w.Warnings = append(w.Warnings, warning)
}
