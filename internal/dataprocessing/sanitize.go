package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"truccoanalytics/pkg/contracts/domain"
)

// fallbackMargin is assumed when a sales row has no matching cost price.
const fallbackMargin = 0.5

// Sanitizer validates required columns and derives the analytical sales
// columns (year, month, store type, profit).
type Sanitizer struct {
	logger *slog.Logger
}

// NewSanitizer creates a sanitizer.
func NewSanitizer(logger *slog.Logger) *Sanitizer {
	return &Sanitizer{logger: logger.With(slog.String("component", "sanitizer"))}
}

// Sanitize checks required columns on every table and derives the sales
// columns. It only ever adds warnings and columns; source cells are not
// rewritten.
func (s *Sanitizer) Sanitize(ctx context.Context, wb *domain.Workbook) {
	for _, kind := range []domain.TableKind{domain.TableProducts, domain.TableTransfers, domain.TableSales} {
		table := wb.Table(kind)
		if table == nil {
			continue
		}
		s.validateRequired(wb, table)
	}

	s.deriveSales(ctx, wb)
}

// validateRequired marks absent required columns and records a warning for
// each. An empty table skips validation; its absence was already reported
// by the loader.
func (s *Sanitizer) validateRequired(wb *domain.Workbook, table *domain.Table) {
	if table.IsEmpty() && len(table.Columns) == 0 {
		return
	}

	for _, name := range RequiredColumns(table.Kind) {
		if table.HasColumn(name) {
			continue
		}
		table.MarkMissingRequired(name)
		wb.Warn(domain.LoadWarning{
			Kind:    domain.WarningMissingColumn,
			Table:   table.Kind,
			Subject: name,
			Message: fmt.Sprintf("required column %q missing from %s table", name, table.Kind),
		})
	}
}

// deriveSales appends Año, Mes, Es_Online and Beneficio to the sales table.
func (s *Sanitizer) deriveSales(ctx context.Context, wb *domain.Workbook) {
	sales := wb.Sales
	if sales == nil || sales.IsEmpty() {
		return
	}

	n := sales.RowCount()

	if dates := sales.Column(ColDocumentDate); dates != nil {
		year := domain.Column{Name: ColYear, Type: domain.ColumnNumber, Cells: make([]domain.Cell, n)}
		month := domain.Column{Name: ColMonth, Type: domain.ColumnNumber, Cells: make([]domain.Cell, n)}
		for i, cell := range dates.Cells {
			if t, ok := cell.Time(); ok {
				year.Cells[i] = domain.NumberCell(float64(t.Year()))
				month.Cells[i] = domain.NumberCell(float64(t.Month()))
			} else {
				year.Cells[i] = domain.NullCell()
				month.Cells[i] = domain.NullCell()
			}
		}
		sales.Columns = append(sales.Columns, year, month)
	}

	if stores := sales.Column(ColStore); stores != nil {
		online := domain.Column{Name: ColOnline, Type: domain.ColumnString, Cells: make([]domain.Cell, n)}
		for i, cell := range stores.Cells {
			if cell.Kind == domain.CellString && IsForeignStore(cell.Str) {
				online.Cells[i] = domain.StringCell(StoreOnline)
			} else {
				online.Cells[i] = domain.StringCell(StorePhysical)
			}
		}
		sales.Columns = append(sales.Columns, online)
	}

	s.deriveProfit(ctx, wb)
}

// deriveProfit computes Beneficio per sales row. When the product cost is
// known (joined from the products table on the product code) profit is
// (P.V.P. - cost) * quantity; otherwise a 50% margin on P.V.P. is assumed.
func (s *Sanitizer) deriveProfit(ctx context.Context, wb *domain.Workbook) {
	sales := wb.Sales
	if sales.HasColumn(ColProfit) {
		return
	}

	pvp := sales.Column(ColPVP)
	qty := sales.Column(ColQuantity)
	if pvp == nil || qty == nil {
		return
	}

	costs := productCosts(wb.Products)
	codes := sales.Column(ColProductCode)

	n := sales.RowCount()
	profit := domain.Column{Name: ColProfit, Type: domain.ColumnNumber, Cells: make([]domain.Cell, n)}
	withCost := 0

	for i := 0; i < n; i++ {
		price, okPrice := pvp.Cells[i].Number()
		quantity, okQty := qty.Cells[i].Number()
		if !okPrice || !okQty {
			profit.Cells[i] = domain.NullCell()
			continue
		}

		if codes != nil {
			if code := codes.Cells[i]; code.Kind == domain.CellString {
				if cost, ok := costs[code.Str]; ok {
					profit.Cells[i] = domain.NumberCell((price - cost) * quantity)
					withCost++
					continue
				}
			}
		}
		profit.Cells[i] = domain.NumberCell(price * quantity * fallbackMargin)
	}

	sales.Columns = append(sales.Columns, profit)

	s.logger.DebugContext(ctx, "profit derived",
		slog.Int("rows", n),
		slog.Int("rows_with_cost", withCost))
}

// productCosts maps product code to the first non-null cost price.
func productCosts(products *domain.Table) map[string]float64 {
	costs := make(map[string]float64)
	if products == nil {
		return costs
	}

	codes := products.Column(ColProductCode)
	prices := products.Column(ColCost)
	if codes == nil || prices == nil {
		return costs
	}

	for i := range codes.Cells {
		code := codes.Cells[i]
		if code.Kind != domain.CellString || code.Str == "" {
			continue
		}
		if _, ok := costs[code.Str]; ok {
			continue
		}
		if cost, ok := prices.Cells[i].Number(); ok {
			costs[code.Str] = cost
		}
	}
	return costs
}
