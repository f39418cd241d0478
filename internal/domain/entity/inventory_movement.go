package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeInPurchase    = "IN_PURCHASE"    // recepción de pedido
	MovementTypeInProduction  = "IN_PRODUCTION"  // producto terminado
	MovementTypeOutProduction = "OUT_PRODUCTION" // insumo consumido en producción
	MovementTypeOutLoss       = "OUT_LOSS"       // merma
	MovementTypeAdjustment    = "ADJUSTMENT"     // ajuste manual o por conteo
)

// Tipos de documento que originan un movimiento.
const (
	ReferenceOrder      = "order"
	ReferenceProduction = "production_event"
	ReferenceLoss       = "loss_event"
	ReferenceCount      = "inventory_count"
	ReferenceManual     = "manual"
)

// InventoryMovement representa un movimiento de inventario.
type InventoryMovement struct {
	ID            string
	TransactionID string
	ItemID        string
	BatchID       string // vacío si el movimiento no está atado a un lote
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Reason        string
	ReferenceType string
	ReferenceID   string
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeInPurchase, MovementTypeInProduction, MovementTypeOutProduction,
		MovementTypeOutLoss, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementFilter criterios para listar movimientos.
type MovementFilter struct {
	ItemID string
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
