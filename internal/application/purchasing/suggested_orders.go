package purchasing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Motivos por los que un ítem bajo mínimo queda fuera de los pedidos sugeridos.
const (
	SkipNoPresentation   = "sin presentación activa"
	SkipNoSupplier       = "sin proveedor"
	SkipInactiveSupplier = "proveedor inactivo"
	SkipAlreadyAtTarget  = "stock objetivo cubierto"
)

type suggestion struct {
	level        *entity.StockLevel
	presentation *entity.Presentation
	supplierID   string
	target       decimal.Decimal
	need         decimal.Decimal
	quantity     decimal.Decimal
}

// GenerateSuggested calcula la reposición de los ítems activos bajo mínimo y deja un pedido
// sugerido en borrador por proveedor. Si ya existe un borrador sugerido para el proveedor,
// sus cantidades se reemplazan (no se acumulan), así que ejecutarlo dos veces con el mismo
// stock deja los mismos pedidos. Todo corre en una transacción.
func (uc *OrderUseCase) GenerateSuggested(ctx context.Context, userID string) (*dto.GenerateSuggestedOrdersResponse, error) {
	resp := &dto.GenerateSuggestedOrdersResponse{
		Orders:  []dto.SuggestedOrderResponse{},
		Skipped: []dto.SkippedItemResponse{},
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		resp.Orders = resp.Orders[:0]
		resp.Skipped = resp.Skipped[:0]

		levels, err := repos.Stock.ListLevels(ctx)
		if err != nil {
			return err
		}
		bySupplier := make(map[string][]suggestion)
		suppliers := make(map[string]*entity.Supplier)
		for _, l := range levels {
			if !l.MinStock.GreaterThan(decimal.Zero) || !l.Quantity.LessThan(l.MinStock) {
				continue
			}
			skip := func(reason string) {
				resp.Skipped = append(resp.Skipped, dto.SkippedItemResponse{ItemID: l.ItemID, ItemName: l.ItemName, Reason: reason})
			}
			target := invdomain.TargetStock(l.MinStock, l.MaxStock, uc.coverage)
			need := target.Sub(l.Quantity)
			if !need.GreaterThan(decimal.Zero) {
				skip(SkipAlreadyAtTarget)
				continue
			}
			presentations, err := repos.Presentations.ListByItem(ctx, l.ItemID)
			if err != nil {
				return err
			}
			p := ChoosePresentation(presentations, l.DefaultSupplierID)
			if p == nil {
				skip(SkipNoPresentation)
				continue
			}
			supplierID := p.SupplierID
			if supplierID == "" {
				supplierID = l.DefaultSupplierID
			}
			if supplierID == "" {
				skip(SkipNoSupplier)
				continue
			}
			s, ok := suppliers[supplierID]
			if !ok {
				if s, err = repos.Suppliers.GetByID(ctx, supplierID); err != nil {
					return err
				}
				suppliers[supplierID] = s
			}
			if s == nil {
				skip(SkipNoSupplier)
				continue
			}
			if !s.Active {
				skip(SkipInactiveSupplier)
				continue
			}
			bySupplier[supplierID] = append(bySupplier[supplierID], suggestion{
				level:        l,
				presentation: p,
				supplierID:   supplierID,
				target:       target,
				need:         need,
				quantity:     invdomain.PresentationsNeeded(need, p.ConversionFactor),
			})
		}

		if err := dropMovedLines(ctx, repos, bySupplier); err != nil {
			return err
		}

		ids := make([]string, 0, len(bySupplier))
		for id := range bySupplier {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, supplierID := range ids {
			out, err := uc.upsertSuggested(ctx, repos, userID, suppliers[supplierID], bySupplier[supplierID])
			if err != nil {
				return err
			}
			resp.Orders = append(resp.Orders, *out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int("orders", len(resp.Orders)).
		Int("skipped", len(resp.Skipped)).
		Str("user_id", userID).
		Msg("pedidos sugeridos generados")
	return resp, nil
}

// upsertSuggested crea el borrador sugerido del proveedor o actualiza el existente línea por ítem.
func (uc *OrderUseCase) upsertSuggested(ctx context.Context, repos repository.Repositories, userID string, supplier *entity.Supplier, lines []suggestion) (*dto.SuggestedOrderResponse, error) {
	now := time.Now()
	order, err := repos.Orders.FindSuggestedDraft(ctx, supplier.ID)
	if err != nil {
		return nil, err
	}
	created := order == nil
	if created {
		order = &entity.Order{
			ID:          uuid.New().String(),
			SupplierID:  supplier.ID,
			Status:      entity.OrderStatusDraft,
			IsSuggested: true,
			OrderDate:   now,
			Notes:       "Pedido sugerido",
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if supplier.LeadTimeDays > 0 {
			exp := now.AddDate(0, 0, supplier.LeadTimeDays)
			order.ExpectedDate = &exp
		}
	}

	out := &dto.SuggestedOrderResponse{OrderID: order.ID, SupplierID: supplier.ID, Created: created}
	for _, s := range lines {
		d := &entity.OrderDetail{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			ItemID:           s.level.ItemID,
			PresentationID:   s.presentation.ID,
			Quantity:         s.quantity,
			UnitPrice:        s.presentation.Price,
			ConversionFactor: s.presentation.ConversionFactor,
			ReceivedQuantity: decimal.Zero,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if created {
			order.Details = append(order.Details, d)
		} else if err := replaceLine(ctx, repos, order, d); err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, dto.SuggestedLineResponse{
			ItemID:           s.level.ItemID,
			ItemName:         s.level.ItemName,
			PresentationID:   s.presentation.ID,
			CurrentStock:     s.level.Quantity,
			TargetStock:      s.target,
			Need:             s.need,
			Quantity:         s.quantity,
			ConversionFactor: s.presentation.ConversionFactor,
			UnitPrice:        s.presentation.Price,
		})
	}

	order.Recalculate()
	order.UpdatedAt = now
	if created {
		err = repos.Orders.Create(ctx, order)
	} else {
		err = repos.Orders.Update(ctx, order)
	}
	if err != nil {
		return nil, err
	}
	out.Total = order.Total
	return out, nil
}

// dropMovedLines quita de los borradores sugeridos las líneas de ítems que en esta corrida
// se piden a otro proveedor. Un borrador sugerido que queda sin líneas se elimina.
func dropMovedLines(ctx context.Context, repos repository.Repositories, bySupplier map[string][]suggestion) error {
	target := make(map[string]string)
	for supplierID, lines := range bySupplier {
		for _, s := range lines {
			target[s.level.ItemID] = supplierID
		}
	}
	drafts, err := repos.Orders.List(ctx, entity.OrderFilter{Status: entity.OrderStatusDraft})
	if err != nil {
		return err
	}
	for _, h := range drafts {
		if !h.IsSuggested {
			continue
		}
		order, err := repos.Orders.GetForUpdate(ctx, h.ID)
		if err != nil {
			return err
		}
		if order == nil {
			continue
		}
		kept := make([]*entity.OrderDetail, 0, len(order.Details))
		for _, d := range order.Details {
			if supplierID, ok := target[d.ItemID]; ok && supplierID != order.SupplierID {
				if err := repos.Orders.DeleteDetail(ctx, d.ID); err != nil {
					return err
				}
				continue
			}
			kept = append(kept, d)
		}
		if len(kept) == len(order.Details) {
			continue
		}
		if len(kept) == 0 {
			if err := repos.Orders.Delete(ctx, order.ID); err != nil {
				return err
			}
			continue
		}
		order.Details = kept
		order.Recalculate()
		order.UpdatedAt = time.Now()
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

// replaceLine deja una sola línea por ítem en el borrador: si existe se reemplaza la
// cantidad (y presentación, si cambió); si no, se agrega.
func replaceLine(ctx context.Context, repos repository.Repositories, order *entity.Order, d *entity.OrderDetail) error {
	for i, existing := range order.Details {
		if existing.ItemID != d.ItemID {
			continue
		}
		if existing.PresentationID == d.PresentationID {
			d.ID = existing.ID
			d.CreatedAt = existing.CreatedAt
			if err := repos.Orders.UpdateDetail(ctx, d); err != nil {
				return err
			}
			order.Details[i] = d
			return nil
		}
		if err := repos.Orders.DeleteDetail(ctx, existing.ID); err != nil {
			return err
		}
		if err := repos.Orders.AddDetail(ctx, d); err != nil {
			return err
		}
		order.Details[i] = d
		return nil
	}
	if err := repos.Orders.AddDetail(ctx, d); err != nil {
		return err
	}
	order.Details = append(order.Details, d)
	return nil
}

// ChoosePresentation elige la presentación a pedir: la predeterminada del proveedor
// habitual, si no cualquier predeterminada, si no la activa más barata por unidad base.
func ChoosePresentation(list []*entity.Presentation, defaultSupplierID string) *entity.Presentation {
	var anyDefault, cheapest *entity.Presentation
	for _, p := range list {
		if !p.Active || !p.ConversionFactor.GreaterThan(decimal.Zero) {
			continue
		}
		if p.IsDefault {
			if defaultSupplierID != "" && p.SupplierID == defaultSupplierID {
				return p
			}
			if anyDefault == nil {
				anyDefault = p
			}
		}
		if cheapest == nil || basePrice(p).LessThan(basePrice(cheapest)) {
			cheapest = p
		}
	}
	if anyDefault != nil {
		return anyDefault
	}
	return cheapest
}

func basePrice(p *entity.Presentation) decimal.Decimal {
	return p.Price.Div(p.ConversionFactor)
}
