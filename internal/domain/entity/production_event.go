package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionEvent registra una tanda de producción: consume insumos y genera producto terminado.
type ProductionEvent struct {
	ID            string
	ProductItemID string
	Quantity      decimal.Decimal // unidades base producidas
	UnitCost      decimal.Decimal // Σ costo insumos / Quantity
	TotalCost     decimal.Decimal
	BatchID       string // lote creado para el producto
	Date          time.Time
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	Details       []*ProductionEventDetail
}

// ProductionEventDetail insumo consumido por el evento.
type ProductionEventDetail struct {
	ID        string
	EventID   string
	ItemID    string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}
