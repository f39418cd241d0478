package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository           = (*OrderRepo)(nil)
	_ repository.ProductionEventRepository = (*ProductionEventRepo)(nil)
	_ repository.LossEventRepository       = (*LossEventRepo)(nil)
)

// OrderRepo pedidos en memoria; cabeceras y líneas se guardan por separado.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h := cp(o)
	h.Details = nil
	r.s.d.orders[o.ID] = h
	for _, d := range o.Details {
		d.OrderID = o.ID
		r.s.d.orderDetails[d.ID] = cp(d)
	}
	return nil
}

// withDetails arma el pedido con sus líneas. Requiere el lock tomado.
func (r *OrderRepo) withDetails(h *entity.Order) *entity.Order {
	o := cp(h)
	o.Details = nil
	for _, d := range r.s.d.orderDetails {
		if d.OrderID == o.ID {
			o.Details = append(o.Details, cp(d))
		}
	}
	sort.Slice(o.Details, func(i, j int) bool {
		if !o.Details[i].CreatedAt.Equal(o.Details[j].CreatedAt) {
			return o.Details[i].CreatedAt.Before(o.Details[j].CreatedAt)
		}
		return o.Details[i].ID < o.Details[j].ID
	})
	return o
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.d.orders[id]
	if !ok {
		return nil, nil
	}
	return r.withDetails(h), nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) FindSuggestedDraft(_ context.Context, supplierID string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var found *entity.Order
	for _, h := range r.s.d.orders {
		if h.SupplierID == supplierID && h.IsSuggested && h.Status == entity.OrderStatusDraft {
			if found == nil || h.CreatedAt.Before(found.CreatedAt) {
				found = h
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	return r.withDetails(found), nil
}

func (r *OrderRepo) List(_ context.Context, f entity.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Order
	for _, h := range r.s.d.orders {
		if f.Status != "" && h.Status != f.Status {
			continue
		}
		if f.SupplierID != "" && h.SupplierID != f.SupplierID {
			continue
		}
		o := cp(h)
		o.Details = nil
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	h := cp(o)
	h.Details = nil
	r.s.d.orders[o.ID] = h
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.orders, id)
	for did, d := range r.s.d.orderDetails {
		if d.OrderID == id {
			delete(r.s.d.orderDetails, did)
		}
	}
	return nil
}

func (r *OrderRepo) AddDetail(_ context.Context, d *entity.OrderDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.orders[d.OrderID]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.d.orderDetails {
		if e.OrderID == d.OrderID && e.ItemID == d.ItemID && e.PresentationID == d.PresentationID {
			return domain.ErrDuplicate
		}
	}
	r.s.d.orderDetails[d.ID] = cp(d)
	return nil
}

func (r *OrderRepo) UpdateDetail(_ context.Context, d *entity.OrderDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.orderDetails[d.ID]; !ok {
		return domain.ErrNotFound
	}
	c := cp(d)
	c.UpdatedAt = time.Now()
	r.s.d.orderDetails[d.ID] = c
	return nil
}

func (r *OrderRepo) DeleteDetail(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.orderDetails, id)
	return nil
}

// ProductionEventRepo eventos de producción en memoria.
type ProductionEventRepo struct{ s *Store }

func (r *ProductionEventRepo) Create(_ context.Context, e *entity.ProductionEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.production[e.ID] = cloneProduction(e)
	return nil
}

func (r *ProductionEventRepo) GetByID(_ context.Context, id string) (*entity.ProductionEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.d.production[id]
	if !ok {
		return nil, nil
	}
	return cloneProduction(e), nil
}

func (r *ProductionEventRepo) List(_ context.Context, from, to *time.Time, limit, offset int) ([]*entity.ProductionEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.ProductionEvent
	for _, e := range r.s.d.production {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		c := cp(e)
		c.Details = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

// LossEventRepo mermas en memoria.
type LossEventRepo struct{ s *Store }

func (r *LossEventRepo) Create(_ context.Context, e *entity.LossEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.losses[e.ID] = cloneLoss(e)
	return nil
}

func (r *LossEventRepo) GetByID(_ context.Context, id string) (*entity.LossEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.d.losses[id]
	if !ok {
		return nil, nil
	}
	return cloneLoss(e), nil
}

func (r *LossEventRepo) List(_ context.Context, f entity.LossFilter) ([]*entity.LossEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.LossEvent
	for _, e := range r.s.d.losses {
		if f.Reason != "" && e.Reason != f.Reason {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		c := cp(e)
		c.Details = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), nil
}
