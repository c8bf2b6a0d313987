package dataprocessing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/shared/testutil"
	"truccoanalytics/pkg/contracts/domain"
)

func loadFixture(t *testing.T, sheets ...testutil.SheetFixture) *domain.Workbook {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger)

	data := testutil.BuildWorkbook(t, sheets...)
	wb, err := loader.Load(context.Background(), "fixture.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	return wb
}

func TestSanitizer_DerivedColumns(t *testing.T) {
	wb := loadFixture(t, testutil.ProductsSheet(), testutil.TransfersSheet(), testutil.SalesSheet())

	logger, _ := testutil.NewTestLogger(t)
	NewSanitizer(logger).Sanitize(context.Background(), wb)

	sales := wb.Sales
	require.True(t, sales.HasColumn(ColYear))
	require.True(t, sales.HasColumn(ColMonth))
	require.True(t, sales.HasColumn(ColOnline))
	require.True(t, sales.HasColumn(ColProfit))

	year, ok := sales.Cell(0, ColYear).Number()
	require.True(t, ok)
	assert.Equal(t, 2025.0, year)

	month, ok := sales.Cell(2, ColMonth).Number()
	require.True(t, ok)
	assert.Equal(t, 2.0, month)

	// All fixture stores are domestic.
	assert.Equal(t, StorePhysical, sales.Cell(0, ColOnline).Str)
}

func TestSanitizer_ProfitWithCost(t *testing.T) {
	wb := loadFixture(t, testutil.ProductsSheet(), testutil.SalesSheet())

	logger, _ := testutil.NewTestLogger(t)
	NewSanitizer(logger).Sanitize(context.Background(), wb)

	// Row 0: code A1, pvp 10, cost 4, qty 5 -> (10-4)*5 = 30.
	profit, ok := wb.Sales.Cell(0, ColProfit).Number()
	require.True(t, ok)
	assert.InDelta(t, 30.0, profit, 1e-9)

	// Return row: code B2, pvp 20, cost 8, qty -1 -> -12.
	ret, ok := wb.Sales.Cell(3, ColProfit).Number()
	require.True(t, ok)
	assert.InDelta(t, -12.0, ret, 1e-9)
}

func TestSanitizer_ProfitFallbackMargin(t *testing.T) {
	// No products sheet: every row falls back to the assumed margin.
	wb := loadFixture(t, testutil.SalesSheet())

	logger, _ := testutil.NewTestLogger(t)
	NewSanitizer(logger).Sanitize(context.Background(), wb)

	// Row 0: pvp 10, qty 5 -> 10*5*0.5 = 25.
	profit, ok := wb.Sales.Cell(0, ColProfit).Number()
	require.True(t, ok)
	assert.InDelta(t, 25.0, profit, 1e-9)
}

func TestSanitizer_OnlineStoreClassification(t *testing.T) {
	sales := testutil.SalesSheet()
	sales.Rows = append(sales.Rows,
		[]any{"C3", "VESTIDOS", "V25", "TRUCCOONLINEB2C", "01/03/2025", 2.0, 30.0, "S"})

	wb := loadFixture(t, sales)

	logger, _ := testutil.NewTestLogger(t)
	NewSanitizer(logger).Sanitize(context.Background(), wb)

	last := wb.Sales.RowCount() - 1
	assert.Equal(t, StoreOnline, wb.Sales.Cell(last, ColOnline).Str)
}

func TestSanitizer_MissingRequiredColumn(t *testing.T) {
	sheet := testutil.SheetFixture{
		Name:   "Ventas",
		Header: []string{"Código único", "P.V.P.", "Tienda", "Fecha Documento"},
		Rows: [][]any{
			{"A1", 10.0, "TRUCCO MADRID", "15/01/2025"},
		},
	}

	wb := loadFixture(t, sheet)

	logger, _ := testutil.NewTestLogger(t)
	NewSanitizer(logger).Sanitize(context.Background(), wb)

	assert.False(t, wb.Sales.IsColumnValid(ColQuantity))
	assert.True(t, wb.Sales.IsColumnValid(ColPVP))

	var found bool
	for _, w := range wb.Warnings {
		if w.Kind == domain.WarningMissingColumn && w.Subject == ColQuantity {
			found = true
		}
	}
	assert.True(t, found, "expected missing-column warning for Cantidad")
}

func TestSanitizer_EmptySalesTable(t *testing.T) {
	wb := loadFixture(t, testutil.ProductsSheet())

	logger, _ := testutil.NewTestLogger(t)
	NewSanitizer(logger).Sanitize(context.Background(), wb)

	assert.True(t, wb.Sales.IsEmpty())
	assert.False(t, wb.Sales.HasColumn(ColProfit))
}
