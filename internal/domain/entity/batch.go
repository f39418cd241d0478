package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de un lote.
const (
	BatchSourcePurchase   = "purchase"
	BatchSourceProduction = "production"
	BatchSourceAdjustment = "adjustment"
)

// ItemBatch es un lote de un ítem con su fecha de vencimiento; las salidas lo consumen FEFO.
type ItemBatch struct {
	ID             string
	ItemID         string
	LotCode        string
	Quantity       decimal.Decimal // cantidad inicial en unidades base
	Remaining      decimal.Decimal
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time // nil si no vence
	ReceivedAt     time.Time
	SourceType     string
	SourceID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
