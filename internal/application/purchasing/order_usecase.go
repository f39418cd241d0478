package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	appinventory "github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// OrderUseCase gestiona pedidos a proveedores: borradores, envío, recepción y cancelación.
type OrderUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	pdf      OrderPDFGenerator
	coverage decimal.Decimal
	log      *logger.Logger
}

// NewOrderUseCase construye el caso de uso. coverage es el factor sobre el mínimo
// que usan los pedidos sugeridos cuando el ítem no tiene máximo.
func NewOrderUseCase(repos repository.Repositories, txRunner repository.TxRunner, pdf OrderPDFGenerator, coverage decimal.Decimal, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{repos: repos, txRunner: txRunner, pdf: pdf, coverage: coverage, log: log}
}

// Create crea un pedido en borrador, opcionalmente con líneas.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	expected, err := dto.ParseDate(in.ExpectedDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		SupplierID:   in.SupplierID,
		Status:       entity.OrderStatusDraft,
		OrderDate:    now,
		ExpectedDate: expected,
		Notes:        in.Notes,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		supplier, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
		}
		if !supplier.Active {
			return fmt.Errorf("proveedor inactivo: %w", domain.ErrInvalidState)
		}
		if order.ExpectedDate == nil && supplier.LeadTimeDays > 0 {
			exp := now.AddDate(0, 0, supplier.LeadTimeDays)
			order.ExpectedDate = &exp
		}
		seen := make(map[string]bool, len(in.Details))
		for _, req := range in.Details {
			d, err := buildDetail(ctx, repos, order, req)
			if err != nil {
				return err
			}
			key := d.ItemID + "|" + d.PresentationID
			if seen[key] {
				return fmt.Errorf("línea repetida: %w", domain.ErrDuplicate)
			}
			seen[key] = true
			order.Details = append(order.Details, d)
		}
		order.Recalculate()
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, order.ID)
}

// Update modifica fecha esperada y notas de un borrador.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	err := uc.withDraft(ctx, id, func(repos repository.Repositories, o *entity.Order) error {
		if in.ExpectedDate != nil {
			exp, err := dto.ParseDate(*in.ExpectedDate)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			o.ExpectedDate = exp
		}
		if in.Notes != nil {
			o.Notes = *in.Notes
		}
		o.UpdatedAt = time.Now()
		return repos.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un borrador con sus líneas.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	return uc.withDraft(ctx, id, func(repos repository.Repositories, o *entity.Order) error {
		return repos.Orders.Delete(ctx, o.ID)
	})
}

// AddDetail agrega una línea a un borrador y recalcula el total.
func (uc *OrderUseCase) AddDetail(ctx context.Context, orderID string, in dto.OrderDetailRequest) (*dto.OrderResponse, error) {
	err := uc.withDraft(ctx, orderID, func(repos repository.Repositories, o *entity.Order) error {
		d, err := buildDetail(ctx, repos, o, in)
		if err != nil {
			return err
		}
		if err := repos.Orders.AddDetail(ctx, d); err != nil {
			return err
		}
		o.Details = append(o.Details, d)
		return saveTotal(ctx, repos, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, orderID)
}

// UpdateDetail reemplaza una línea de un borrador.
func (uc *OrderUseCase) UpdateDetail(ctx context.Context, orderID, detailID string, in dto.OrderDetailRequest) (*dto.OrderResponse, error) {
	err := uc.withDraft(ctx, orderID, func(repos repository.Repositories, o *entity.Order) error {
		idx := detailIndex(o, detailID)
		if idx < 0 {
			return domain.ErrNotFound
		}
		d, err := buildDetail(ctx, repos, o, in)
		if err != nil {
			return err
		}
		for i, other := range o.Details {
			if i != idx && other.ItemID == d.ItemID && other.PresentationID == d.PresentationID {
				return fmt.Errorf("línea repetida: %w", domain.ErrDuplicate)
			}
		}
		d.ID = detailID
		d.CreatedAt = o.Details[idx].CreatedAt
		if err := repos.Orders.UpdateDetail(ctx, d); err != nil {
			return err
		}
		o.Details[idx] = d
		return saveTotal(ctx, repos, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, orderID)
}

// RemoveDetail quita una línea de un borrador.
func (uc *OrderUseCase) RemoveDetail(ctx context.Context, orderID, detailID string) (*dto.OrderResponse, error) {
	err := uc.withDraft(ctx, orderID, func(repos repository.Repositories, o *entity.Order) error {
		idx := detailIndex(o, detailID)
		if idx < 0 {
			return domain.ErrNotFound
		}
		if err := repos.Orders.DeleteDetail(ctx, detailID); err != nil {
			return err
		}
		o.Details = append(o.Details[:idx], o.Details[idx+1:]...)
		return saveTotal(ctx, repos, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, orderID)
}

// Send pasa un borrador con líneas a enviado.
func (uc *OrderUseCase) Send(ctx context.Context, id string) (*dto.OrderResponse, error) {
	err := uc.transition(ctx, id, entity.OrderStatusSent, func(_ repository.Repositories, o *entity.Order) error {
		if len(o.Details) == 0 {
			return fmt.Errorf("pedido sin líneas: %w", domain.ErrInvalidInput)
		}
		now := time.Now()
		o.SentAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Msg("pedido enviado")
	return uc.GetByID(ctx, id)
}

// Cancel cancela un pedido en borrador o enviado.
func (uc *OrderUseCase) Cancel(ctx context.Context, id string) (*dto.OrderResponse, error) {
	if err := uc.transition(ctx, id, entity.OrderStatusCancelled, nil); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Msg("pedido cancelado")
	return uc.GetByID(ctx, id)
}

// Receive registra la recepción de un pedido enviado. Cada línea recibida crea un lote
// (cantidad base = recibido × factor, costo unitario = precio / factor) con su
// movimiento IN_PURCHASE y recalcula el costo promedio. Sin líneas se recibe todo lo pedido.
func (uc *OrderUseCase) Receive(ctx context.Context, userID, id string, in dto.ReceiveOrderRequest) (*dto.OrderResponse, error) {
	type receipt struct {
		qty     decimal.Decimal
		exp     *time.Time
		lotCode string
	}
	lines := make(map[string]receipt, len(in.Lines))
	for _, l := range in.Lines {
		if l.DetailID == "" || l.ReceivedQuantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := lines[l.DetailID]; dup {
			return nil, domain.ErrInvalidInput
		}
		exp, err := dto.ParseDate(l.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		lines[l.DetailID] = receipt{qty: l.ReceivedQuantity, exp: exp, lotCode: l.LotCode}
	}

	batches := 0
	err := uc.transition(ctx, id, entity.OrderStatusReceived, func(repos repository.Repositories, o *entity.Order) error {
		for detailID := range lines {
			if detailIndex(o, detailID) < 0 {
				return fmt.Errorf("línea %s: %w", detailID, domain.ErrNotFound)
			}
		}
		txID := uuid.New().String()
		now := time.Now()
		for _, d := range o.Details {
			r := receipt{qty: d.Quantity}
			if len(lines) > 0 {
				var ok bool
				if r, ok = lines[d.ID]; !ok {
					continue
				}
			}
			if !r.qty.GreaterThan(decimal.Zero) {
				continue
			}
			_, err := appinventory.Inbound(ctx, repos, appinventory.InboundInput{
				ItemID:         d.ItemID,
				Quantity:       r.qty.Mul(d.ConversionFactor),
				UnitCost:       invdomain.UnitCost(d.UnitPrice, d.ConversionFactor),
				ExpirationDate: r.exp,
				LotCode:        r.lotCode,
				MovementType:   entity.MovementTypeInPurchase,
				SourceType:     entity.BatchSourcePurchase,
				ReferenceType:  entity.ReferenceOrder,
				ReferenceID:    o.ID,
				TransactionID:  txID,
				UserID:         userID,
				Date:           now,
			})
			if err != nil {
				return err
			}
			d.ReceivedQuantity = r.qty
			if err := repos.Orders.UpdateDetail(ctx, d); err != nil {
				return err
			}
			batches++
		}
		if batches == 0 {
			return fmt.Errorf("nada para recibir: %w", domain.ErrInvalidInput)
		}
		o.ReceivedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Int("batches", batches).Str("user_id", userID).Msg("pedido recibido")
	return uc.GetByID(ctx, id)
}

// GetByID devuelve el pedido con líneas y nombres de proveedor, ítems y presentaciones.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, o)
}

// List filtra pedidos por estado y proveedor; no incluye líneas.
func (uc *OrderUseCase) List(ctx context.Context, f entity.OrderFilter) ([]dto.OrderResponse, error) {
	switch f.Status {
	case "", entity.OrderStatusDraft, entity.OrderStatusSent, entity.OrderStatusReceived, entity.OrderStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := uc.repos.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		r := toOrderResponse(o)
		r.Details = nil
		if _, ok := names[o.SupplierID]; !ok {
			s, err := uc.repos.Suppliers.GetByID(ctx, o.SupplierID)
			if err != nil {
				return nil, err
			}
			if s != nil {
				names[o.SupplierID] = s.Name
			}
		}
		r.SupplierName = names[o.SupplierID]
		out = append(out, r)
	}
	return out, nil
}

// PDF genera el documento del pedido.
func (uc *OrderUseCase) PDF(ctx context.Context, id string) ([]byte, error) {
	order, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.repos.Suppliers.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.GenerateOrderPDF(ctx, order, supplier)
}

// withDraft bloquea el pedido y ejecuta fn solo si está en borrador.
func (uc *OrderUseCase) withDraft(ctx context.Context, id string, fn func(repos repository.Repositories, o *entity.Order) error) error {
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.Status != entity.OrderStatusDraft {
			return fmt.Errorf("pedido en estado %s: %w", o.Status, domain.ErrInvalidState)
		}
		return fn(repos, o)
	})
}

// transition valida el cambio de estado, ejecuta fn (opcional) y persiste la cabecera.
func (uc *OrderUseCase) transition(ctx context.Context, id, next string, fn func(repos repository.Repositories, o *entity.Order) error) error {
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !o.CanTransition(next) {
			return fmt.Errorf("pedido %s → %s: %w", o.Status, next, domain.ErrInvalidState)
		}
		if fn != nil {
			if err := fn(repos, o); err != nil {
				return err
			}
		}
		o.Status = next
		o.UpdatedAt = time.Now()
		return repos.Orders.Update(ctx, o)
	})
}

// buildDetail valida ítem y presentación y arma la línea con el precio y factor vigentes.
func buildDetail(ctx context.Context, repos repository.Repositories, o *entity.Order, in dto.OrderDetailRequest) (*entity.OrderDetail, error) {
	if in.ItemID == "" || in.PresentationID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := repos.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", in.ItemID, domain.ErrNotFound)
	}
	p, err := repos.Presentations.GetByID(ctx, in.PresentationID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ItemID != in.ItemID {
		return nil, fmt.Errorf("presentación %s: %w", in.PresentationID, domain.ErrNotFound)
	}
	if p.SupplierID != "" && p.SupplierID != o.SupplierID {
		return nil, fmt.Errorf("la presentación pertenece a otro proveedor: %w", domain.ErrInvalidInput)
	}
	price := p.Price
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	now := time.Now()
	return &entity.OrderDetail{
		ID:               uuid.New().String(),
		OrderID:          o.ID,
		ItemID:           in.ItemID,
		PresentationID:   in.PresentationID,
		Quantity:         in.Quantity,
		UnitPrice:        price,
		ConversionFactor: p.ConversionFactor,
		ReceivedQuantity: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func saveTotal(ctx context.Context, repos repository.Repositories, o *entity.Order) error {
	o.Recalculate()
	o.UpdatedAt = time.Now()
	return repos.Orders.Update(ctx, o)
}

func detailIndex(o *entity.Order, detailID string) int {
	for i, d := range o.Details {
		if d.ID == detailID {
			return i
		}
	}
	return -1
}

func (uc *OrderUseCase) toResponse(ctx context.Context, o *entity.Order) (*dto.OrderResponse, error) {
	resp := toOrderResponse(o)
	supplier, err := uc.repos.Suppliers.GetByID(ctx, o.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		resp.SupplierName = supplier.Name
	}
	for i := range resp.Details {
		d := &resp.Details[i]
		item, err := uc.repos.Items.GetByID(ctx, d.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			d.ItemName = item.Name
		}
		p, err := uc.repos.Presentations.GetByID(ctx, d.PresentationID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			d.PresentationName = p.Name
		}
	}
	return &resp, nil
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           o.ID,
		SupplierID:   o.SupplierID,
		Status:       o.Status,
		IsSuggested:  o.IsSuggested,
		OrderDate:    o.OrderDate,
		ExpectedDate: dto.FormatDate(o.ExpectedDate),
		Notes:        o.Notes,
		Total:        o.Total,
		CreatedBy:    o.CreatedBy,
		SentAt:       o.SentAt,
		ReceivedAt:   o.ReceivedAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, d := range o.Details {
		resp.Details = append(resp.Details, dto.OrderDetailResponse{
			ID:               d.ID,
			ItemID:           d.ItemID,
			PresentationID:   d.PresentationID,
			Quantity:         d.Quantity,
			UnitPrice:        d.UnitPrice,
			ConversionFactor: d.ConversionFactor,
			ReceivedQuantity: d.ReceivedQuantity,
			Subtotal:         d.Subtotal(),
		})
	}
	return resp
}
