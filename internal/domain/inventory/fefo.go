package inventory

import (
	"sort"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation porción de una salida asignada a un lote.
type Allocation struct {
	Batch    *entity.ItemBatch
	Quantity decimal.Decimal
}

// SortFEFO ordena lotes por vencimiento ascendente; los lotes sin vencimiento van al final
// y los empates se resuelven por fecha de recepción.
func SortFEFO(batches []*entity.ItemBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpirationDate == nil && b.ExpirationDate == nil:
			return a.ReceivedAt.Before(b.ReceivedAt)
		case a.ExpirationDate == nil:
			return false
		case b.ExpirationDate == nil:
			return true
		case !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		return a.ReceivedAt.Before(b.ReceivedAt)
	})
}

// AllocateFEFO reparte qty entre los lotes (ya ordenados FEFO) sin modificarlos.
// Devuelve las asignaciones y la cantidad que no se pudo cubrir con lotes.
func AllocateFEFO(batches []*entity.ItemBatch, qty decimal.Decimal) ([]Allocation, decimal.Decimal) {
	pending := qty
	var out []Allocation
	for _, b := range batches {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		if !b.Remaining.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(b.Remaining, pending)
		out = append(out, Allocation{Batch: b, Quantity: take})
		pending = pending.Sub(take)
	}
	return out, pending
}
