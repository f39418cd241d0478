package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un conteo físico.
const (
	CountStatusOpen      = "open"
	CountStatusClosed    = "closed"
	CountStatusCancelled = "cancelled"
)

// InventoryCount es un conteo físico; al cerrarlo se ajusta el stock a lo contado.
type InventoryCount struct {
	ID            string
	StorageAreaID string // vacío = todas las áreas
	Status        string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	ClosedAt      *time.Time
	Details       []*CountDetail
}

// CountDetail línea del conteo. CountedQuantity nil = no contado.
type CountDetail struct {
	ID               string
	CountID          string
	ItemID           string
	ExpectedQuantity decimal.Decimal
	CountedQuantity  *decimal.Decimal
	UpdatedAt        time.Time
}

// Difference devuelve contado − esperado; cero si la línea no se contó.
func (d *CountDetail) Difference() decimal.Decimal {
	if d.CountedQuantity == nil {
		return decimal.Zero
	}
	return d.CountedQuantity.Sub(d.ExpectedQuantity)
}
