package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades base admitidas para un ítem.
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitPiece      = "unit"
)

// Item representa un insumo o producto del inventario.
// Cost es promedio ponderado calculado desde movimientos; el stock vive en Stock.
type Item struct {
	ID                string
	SKU               string // único
	Name              string
	Description       string
	CategoryID        string
	ItemTypeID        string
	StorageAreaID     string
	DefaultSupplierID string // vacío si no tiene proveedor preferido
	BaseUnit          string // kg, g, l, ml, unit
	MinStock          decimal.Decimal
	MaxStock          decimal.Decimal // 0 = sin máximo
	Cost              decimal.Decimal // costo promedio ponderado por unidad base
	IsPerishable      bool
	ShelfLifeDays     int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidBaseUnit indica si u es una unidad base admitida.
func ValidBaseUnit(u string) bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// ItemFilter criterios de búsqueda de ítems.
type ItemFilter struct {
	CategoryID    string
	StorageAreaID string
	Search        string // coincide con nombre o SKU
	ActiveOnly    bool
	Limit         int
	Offset        int
}
