package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// InboundInput entrada de stock: crea un lote, recalcula el costo promedio y registra el movimiento.
type InboundInput struct {
	ItemID         string
	Quantity       decimal.Decimal // unidades base, > 0
	UnitCost       decimal.Decimal // costo por unidad base
	ExpirationDate *time.Time      // nil = se calcula con la vida útil del ítem
	LotCode        string
	MovementType   string
	SourceType     string // origen del lote
	Reason         string
	ReferenceType  string
	ReferenceID    string
	TransactionID  string
	UserID         string
	Date           time.Time
}

// OutboundInput salida de stock. Con BatchID consume ese lote; sin él, FEFO.
type OutboundInput struct {
	ItemID        string
	BatchID       string
	Quantity      decimal.Decimal // unidades base, > 0
	MovementType  string
	Reason        string
	ReferenceType string
	ReferenceID   string
	TransactionID string
	UserID        string
	Date          time.Time
}

// OutboundResult detalle de lo consumido por una salida.
type OutboundResult struct {
	Allocations []invdomain.Allocation
	UnitCost    decimal.Decimal // costo promedio vigente al momento de la salida
	TotalCost   decimal.Decimal
}

// Inbound aplica una entrada usando repositorios atados a la transacción del caller.
// Bloquea la fila de stock (SELECT FOR UPDATE) antes de recalcular el costo.
func Inbound(ctx context.Context, repos repository.Repositories, in InboundInput) (*entity.ItemBatch, error) {
	if in.ItemID == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := repos.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", in.ItemID, domain.ErrNotFound)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.TransactionID == "" {
		in.TransactionID = uuid.New().String()
	}

	stock, err := repos.Stock.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	newCost := invdomain.WeightedAverageCost(stock.Quantity, item.Cost, in.Quantity, in.UnitCost)
	if err := repos.Items.UpdateCost(ctx, in.ItemID, newCost); err != nil {
		return nil, err
	}
	stock.Quantity = stock.Quantity.Add(in.Quantity)
	stock.UpdatedAt = in.Date
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	exp := in.ExpirationDate
	if exp == nil {
		exp = invdomain.ExpirationFor(item, in.Date)
	}
	now := time.Now()
	batch := &entity.ItemBatch{
		ID:             uuid.New().String(),
		ItemID:         in.ItemID,
		LotCode:        in.LotCode,
		Quantity:       in.Quantity,
		Remaining:      in.Quantity,
		UnitCost:       in.UnitCost,
		ExpirationDate: exp,
		ReceivedAt:     in.Date,
		SourceType:     in.SourceType,
		SourceID:       in.ReferenceID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repos.Batches.Create(ctx, batch); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: in.TransactionID,
		ItemID:        in.ItemID,
		BatchID:       batch.ID,
		Type:          in.MovementType,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		TotalCost:     in.Quantity.Mul(in.UnitCost),
		Reason:        in.Reason,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Date:          in.Date,
		CreatedAt:     now,
		CreatedBy:     in.UserID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return batch, nil
}

// Outbound aplica una salida usando repositorios atados a la transacción del caller.
// Verifica StockActual >= CantidadSolicitada con la fila bloqueada; si no alcanza devuelve ErrInsufficientStock.
// El stock sin lote (cargas previas a la trazabilidad) se consume después de los lotes.
func Outbound(ctx context.Context, repos repository.Repositories, out OutboundInput) (*OutboundResult, error) {
	if out.ItemID == "" || !out.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := repos.Items.GetByID(ctx, out.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", out.ItemID, domain.ErrNotFound)
	}
	if out.Date.IsZero() {
		out.Date = time.Now()
	}
	if out.TransactionID == "" {
		out.TransactionID = uuid.New().String()
	}

	stock, err := repos.Stock.GetForUpdate(ctx, out.ItemID)
	if err != nil {
		return nil, err
	}
	if stock.Quantity.LessThan(out.Quantity) {
		return nil, fmt.Errorf("%s: disponible %s, solicitado %s: %w",
			item.Name, stock.Quantity.String(), out.Quantity.String(), domain.ErrInsufficientStock)
	}

	var allocs []invdomain.Allocation
	pending := out.Quantity
	if out.BatchID != "" {
		batch, err := repos.Batches.GetForUpdate(ctx, out.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil || batch.ItemID != out.ItemID {
			return nil, fmt.Errorf("lote %s: %w", out.BatchID, domain.ErrNotFound)
		}
		if batch.Remaining.LessThan(out.Quantity) {
			return nil, fmt.Errorf("lote %s: saldo %s: %w", batch.ID, batch.Remaining.String(), domain.ErrInsufficientStock)
		}
		allocs = []invdomain.Allocation{{Batch: batch, Quantity: out.Quantity}}
		pending = decimal.Zero
	} else {
		batches, err := repos.Batches.ListAvailable(ctx, out.ItemID)
		if err != nil {
			return nil, err
		}
		allocs, pending = invdomain.AllocateFEFO(batches, out.Quantity)
	}

	unitCost := item.Cost
	now := time.Now()
	newMovement := func(batchID string, qty decimal.Decimal) *entity.InventoryMovement {
		return &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: out.TransactionID,
			ItemID:        out.ItemID,
			BatchID:       batchID,
			Type:          out.MovementType,
			Quantity:      qty.Neg(),
			UnitCost:      unitCost,
			TotalCost:     qty.Neg().Mul(unitCost),
			Reason:        out.Reason,
			ReferenceType: out.ReferenceType,
			ReferenceID:   out.ReferenceID,
			Date:          out.Date,
			CreatedAt:     now,
			CreatedBy:     out.UserID,
		}
	}

	for _, a := range allocs {
		a.Batch.Remaining = a.Batch.Remaining.Sub(a.Quantity)
		a.Batch.UpdatedAt = now
		if err := repos.Batches.Update(ctx, a.Batch); err != nil {
			return nil, err
		}
		if err := repos.Movements.Create(ctx, newMovement(a.Batch.ID, a.Quantity)); err != nil {
			return nil, err
		}
		if !a.Batch.Remaining.IsPositive() {
			if err := CloseDepletedAlert(ctx, repos, a.Batch.ID, now); err != nil {
				return nil, err
			}
		}
	}
	if pending.GreaterThan(decimal.Zero) {
		if err := repos.Movements.Create(ctx, newMovement("", pending)); err != nil {
			return nil, err
		}
	}

	stock.Quantity = stock.Quantity.Sub(out.Quantity)
	stock.UpdatedAt = out.Date
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	return &OutboundResult{
		Allocations: allocs,
		UnitCost:    unitCost,
		TotalCost:   out.Quantity.Mul(unitCost),
	}, nil
}

// CloseDepletedAlert resuelve la alerta pendiente de un lote sin saldo. Sin alerta pendiente no hace nada.
func CloseDepletedAlert(ctx context.Context, repos repository.Repositories, batchID string, now time.Time) error {
	alert, err := repos.Alerts.GetPendingByBatch(ctx, batchID)
	if err != nil || alert == nil {
		return err
	}
	alert.Status = entity.AlertStatusResolved
	alert.Resolution = entity.AlertResolutionDepleted
	alert.ResolvedAt = &now
	alert.UpdatedAt = now
	return repos.Alerts.Update(ctx, alert)
}
