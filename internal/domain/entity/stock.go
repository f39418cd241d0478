package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia actual de un ítem en unidades base.
type Stock struct {
	ItemID    string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// Estados de stock frente al mínimo.
const (
	StockStatusOK  = "ok"
	StockStatusLow = "low"
	StockStatusOut = "out"
)

// StockLevel es la vista de stock de un ítem activo con sus datos de catálogo.
type StockLevel struct {
	ItemID            string
	SKU               string
	ItemName          string
	BaseUnit          string
	CategoryID        string
	CategoryName      string
	StorageAreaID     string
	StorageAreaName   string
	DefaultSupplierID string
	Quantity          decimal.Decimal
	MinStock          decimal.Decimal
	MaxStock          decimal.Decimal
	Cost              decimal.Decimal
}
