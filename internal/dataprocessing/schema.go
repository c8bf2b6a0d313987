package dataprocessing

import "truccoanalytics/pkg/contracts/domain"

// Sheet name aliases per table kind. Matching is case-insensitive on the
// trimmed name.
var sheetAliases = map[domain.TableKind][]string{
	domain.TableProducts:  {"Compra", "Productos"},
	domain.TableTransfers: {"Traspasos de almacén a tienda", "Traspasos"},
	domain.TableSales:     {"ventas 23 24 25", "Ventas"},
}

// Required columns per table kind. A missing required column marks the table
// invalid for that column; dependent KPIs degrade instead of failing.
var requiredColumns = map[domain.TableKind][]string{
	domain.TableProducts:  {ColProductCode, ColCost},
	domain.TableTransfers: {ColShipped, ColStore},
	domain.TableSales:     {ColQuantity, ColPVP, ColStore, ColDocumentDate},
}

// Well-known column names from the upstream workbook layout.
const (
	ColProductCode  = "Código único"
	ColACT          = "ACT"
	ColCost         = "Precio Coste"
	ColQuantity     = "Cantidad"
	ColPVP          = "P.V.P."
	ColStore        = "Tienda"
	ColDocumentDate = "Fecha Documento"
	ColDate         = "Fecha"
	ColShipDate     = "Fecha Envío"
	ColWarehouseIn  = "Fecha Entrada Almacén"
	ColShipped      = "Enviado"
	ColFamily       = "Descripción Familia"
	ColSeason       = "Temporada"
	ColSize         = "Talla"
	ColDescription  = "Descripción"
)

// Derived sales columns added during sanitization.
const (
	ColYear      = "Año"
	ColMonth     = "Mes"
	ColOnline    = "Es_Online"
	ColProfit    = "Beneficio"
)

// Store type values held in the derived Es_Online column.
const (
	StoreOnline   = "online"
	StorePhysical = "tienda"
)

// Columns parsed day-first as dates regardless of the numeric heuristic.
var dateColumns = map[string]bool{
	ColDocumentDate: true,
	ColDate:         true,
	ColShipDate:     true,
	ColWarehouseIn:  true,
}

// foreignStores lists the store codes counted as online/foreign channels.
var foreignStores = map[string]bool{
	"I301COINBERGAMO(TRUCCO)":          true,
	"I302COINVARESE(TRUCCO)":           true,
	"I303COINBARICASAMASSIMA(TRUCCO)":  true,
	"I304COINMILANO5GIORNATE(TRUCCO)":  true,
	"I305COINROMACINECITTA(TRUCCO)":    true,
	"I306COINGENOVA(TRUCCO)":           true,
	"I309COINSASSARI(TRUCCO)":          true,
	"I314COINCATANIA(TRUCCO)":          true,
	"I315COINCAGLIARI(TRUCCO)":         true,
	"I316COINLECCE(TRUCCO)":            true,
	"I317COINMILANOCANTORE(TRUCCO)":    true,
	"I318COINMESTRE(TRUCCO)":           true,
	"I319COINPADOVA(TRUCCO)":           true,
	"I320COINFIRENZE(TRUCCO)":          true,
	"I321COINROMASANGIOVANNI(TRUCCO)":  true,
	"TRUCCOONLINEB2C":                  true,
}

// IsForeignStore reports whether the store code is an online/foreign channel.
func IsForeignStore(store string) bool {
	return foreignStores[store]
}

// RequiredColumns returns the required column names for a table kind.
func RequiredColumns(kind domain.TableKind) []string {
	return requiredColumns[kind]
}
