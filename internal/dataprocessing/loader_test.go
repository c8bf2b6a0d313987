package dataprocessing

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/shared/testutil"
	"truccoanalytics/pkg/contracts/domain"
)

func TestLoader_Load_FullWorkbook(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger)

	data := testutil.FullWorkbook(t)
	wb, err := loader.Load(context.Background(), "ventas.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, wb.Products.RowCount())
	assert.Equal(t, 2, wb.Transfers.RowCount())
	assert.Equal(t, 4, wb.Sales.RowCount())
	assert.Empty(t, wb.Warnings)

	qty := wb.Sales.Column(ColQuantity)
	require.NotNil(t, qty)
	assert.Equal(t, domain.ColumnNumber, qty.Type)

	dates := wb.Sales.Column(ColDocumentDate)
	require.NotNil(t, dates)
	assert.Equal(t, domain.ColumnTime, dates.Type)

	first, ok := dates.Cells[0].Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), first)
}

func TestLoader_Load_MissingTransfersSheet(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger)

	data := testutil.BuildWorkbook(t, testutil.ProductsSheet(), testutil.SalesSheet())
	wb, err := loader.Load(context.Background(), "ventas.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.True(t, wb.Transfers.IsEmpty())
	assert.Equal(t, 4, wb.Sales.RowCount())

	var found bool
	for _, w := range wb.Warnings {
		if w.Kind == domain.WarningMissingSheet && w.Table == domain.TableTransfers {
			found = true
		}
	}
	assert.True(t, found, "expected missing-sheet warning for transfers")
}

func TestLoader_Load_SheetAliases(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger)

	sales := testutil.SalesSheet()
	sales.Name = "VENTAS"

	data := testutil.BuildWorkbook(t, sales)
	wb, err := loader.Load(context.Background(), "ventas.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 4, wb.Sales.RowCount(), "alias match should be case-insensitive")
}

func TestLoader_Load_UnreadablePayload(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger)

	_, err := loader.Load(context.Background(), "bogus.xlsx", bytes.NewReader([]byte("not a spreadsheet")))
	require.Error(t, err)
}

func TestLoader_Load_CoercionFailure(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger)

	sheet := testutil.SheetFixture{
		Name:   "Ventas",
		Header: []string{"Código único", "Cantidad"},
		Rows: [][]any{
			{"A1", 1.0},
			{"A2", 2.0},
			{"A3", 3.0},
			{"A4", 4.0},
			{"A5", "n/a"},
		},
	}

	data := testutil.BuildWorkbook(t, sheet)
	wb, err := loader.Load(context.Background(), "ventas.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	qty := wb.Sales.Column("Cantidad")
	require.NotNil(t, qty)
	assert.Equal(t, domain.ColumnNumber, qty.Type, "80% numeric majority should type the column numeric")
	assert.True(t, qty.Cells[4].IsNull(), "failed coercion should null the cell")
	assert.Equal(t, 1, wb.Sales.CoercionFailures["Cantidad"])

	var found bool
	for _, w := range wb.Warnings {
		if w.Kind == domain.WarningCoercion && w.Subject == "Cantidad" && w.Count == 1 {
			found = true
		}
	}
	assert.True(t, found, "expected coercion warning for Cantidad")
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain integer", "42", 42, true},
		{"plain float", "12.5", 12.5, true},
		{"comma decimal", "12,5", 12.5, true},
		{"thousands and comma decimal", "1.234,56", 1234.56, true},
		{"negative", "-3", -3, true},
		{"text", "n/a", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseDate_DayFirst(t *testing.T) {
	got, ok := parseDate("05/03/2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestDedupeHeaders(t *testing.T) {
	headers := dedupeHeaders([]string{"Tienda", "Tienda", " Cantidad ", ""})
	assert.Equal(t, []string{"Tienda", "Tienda (2)", "Cantidad", ""}, headers)
}
