package testutil

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetFixture describes one worksheet for a test workbook: a header row
// followed by data rows. Cell values may be string, float64, int or nil.
type SheetFixture struct {
	Name   string
	Header []string
	Rows   [][]any
}

// BuildWorkbook assembles an in-memory xlsx file from the given sheets and
// returns its raw bytes. Fails the test on any write error.
func BuildWorkbook(t *testing.T, sheets ...SheetFixture) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet %s: %v", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				t.Fatalf("create sheet %s: %v", sheet.Name, err)
			}
		}

		header := make([]any, len(sheet.Header))
		for c, name := range sheet.Header {
			header[c] = name
		}
		writeRow(t, f, sheet.Name, 1, header)

		for r, row := range sheet.Rows {
			writeRow(t, f, sheet.Name, r+2, row)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func writeRow(t *testing.T, f *excelize.File, sheet string, row int, values []any) {
	t.Helper()

	for c, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			t.Fatalf("cell name for col %d row %d: %v", c+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set cell %s!%s: %v", sheet, cell, err)
		}
	}
}

// SalesSheet returns a small sales fixture with the standard columns. The
// rows cover two stores, two families and one return line.
func SalesSheet() SheetFixture {
	return SheetFixture{
		Name: "ventas 23 24 25",
		Header: []string{
			"Código único", "Descripción Familia", "Temporada", "Tienda",
			"Fecha Documento", "Cantidad", "P.V.P.", "Talla",
		},
		Rows: [][]any{
			{"A1", "CAMISETAS", "V25", "TRUCCO MADRID", "15/01/2025", 5.0, 10.0, "M"},
			{"A1", "CAMISETAS", "V25", "TRUCCO MADRID", "16/01/2025", 3.0, 10.0, "L"},
			{"B2", "PANTALONES", "V25", "ECI LISBOA", "20/02/2025", 8.0, 20.0, "38"},
			{"B2", "PANTALONES", "V25", "ECI LISBOA", "21/02/2025", -1.0, 20.0, "38"},
		},
	}
}

// ProductsSheet returns a products fixture keyed by Código único with
// cost prices for the sales fixture rows.
func ProductsSheet() SheetFixture {
	return SheetFixture{
		Name:   "Compra",
		Header: []string{"ACT", "Código único", "Precio Coste", "Descripción Familia", "Descripción"},
		Rows: [][]any{
			{"ACT1", "A1", 4.0, "CAMISETAS", "Camiseta de algodón con cuello redondo y manga corta"},
			{"ACT2", "B2", 8.0, "PANTALONES", "Pantalón recto de lino"},
		},
	}
}

// TransfersSheet returns a transfers fixture with shipped quantities.
func TransfersSheet() SheetFixture {
	return SheetFixture{
		Name:   "Traspasos de almacén a tienda",
		Header: []string{"Código único", "Tienda", "Enviado", "Fecha Envío"},
		Rows: [][]any{
			{"A1", "TRUCCO MADRID", 10.0, "10/01/2025"},
			{"B2", "ECI LISBOA", 12.0, "15/02/2025"},
		},
	}
}

// FullWorkbook builds the standard three-sheet test workbook.
func FullWorkbook(t *testing.T) []byte {
	t.Helper()
	return BuildWorkbook(t, ProductsSheet(), TransfersSheet(), SalesSheet())
}

// NumericGrid builds a single-sheet workbook with n generated numeric rows,
// for coercion and sizing tests.
func NumericGrid(t *testing.T, sheet string, n int) []byte {
	t.Helper()

	fixture := SheetFixture{
		Name:   sheet,
		Header: []string{"Código único", "Cantidad", "P.V.P.", "Tienda", "Fecha Documento"},
	}
	for i := 0; i < n; i++ {
		fixture.Rows = append(fixture.Rows, []any{
			fmt.Sprintf("SKU%04d", i), float64(i%7 + 1), float64(10 + i%5), "TRUCCO MADRID", "01/03/2025",
		})
	}
	return BuildWorkbook(t, fixture)
}
