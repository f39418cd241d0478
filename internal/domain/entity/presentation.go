package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentation es la forma en que un proveedor vende un ítem (bulto de 50 kg, caja de 30 huevos).
// ConversionFactor = unidades base por presentación.
type Presentation struct {
	ID               string
	ItemID           string
	SupplierID       string
	Name             string
	Unit             string // unidad comercial: bulto, caja, galón
	ConversionFactor decimal.Decimal
	Price            decimal.Decimal // precio por presentación
	IsDefault        bool            // a lo sumo una por (item, proveedor)
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
