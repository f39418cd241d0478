package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de merma.
const (
	LossReasonExpired         = "expired"
	LossReasonDamaged         = "damaged"
	LossReasonProductionError = "production_error"
	LossReasonTheft           = "theft"
	LossReasonOther           = "other"
)

// ValidLossReason indica si r es un motivo de merma conocido.
func ValidLossReason(r string) bool {
	switch r {
	case LossReasonExpired, LossReasonDamaged, LossReasonProductionError, LossReasonTheft, LossReasonOther:
		return true
	}
	return false
}

// LossEvent registra una merma de uno o varios ítems.
type LossEvent struct {
	ID        string
	Reason    string
	Date      time.Time
	Notes     string
	TotalCost decimal.Decimal
	CreatedBy string
	CreatedAt time.Time
	Details   []*LossEventDetail
}

// LossEventDetail ítem perdido; BatchID vacío si se consumió FEFO entre varios lotes.
type LossEventDetail struct {
	ID        string
	EventID   string
	ItemID    string
	BatchID   string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
	Notes     string
}

// LossFilter criterios para listar mermas.
type LossFilter struct {
	From   *time.Time
	To     *time.Time
	Reason string
	Limit  int
	Offset int
}
